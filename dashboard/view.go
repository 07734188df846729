package dashboard

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"inboxdash/models"
)

// Status indicator message ids
const (
	StatusOnline  = "status_online"
	StatusWaiting = "status_waiting"
)

// RenderOptions carries request-scoped inputs that are not session state
type RenderOptions struct {
	ActiveTab  string // category slug; defaults to the first category
	MessageURL string // Gmail message link prefix
}

// View is everything a template needs to draw the dashboard
type View struct {
	Synced   bool      `json:"synced"`
	SyncedAt time.Time `json:"synced_at,omitzero"`
	StatusID string    `json:"status"`
	Query    string    `json:"query"`
	Notice   *Notice   `json:"notice,omitempty"`
	Metrics  []Metric  `json:"metrics,omitempty"`
	Tabs     []Tab     `json:"tabs,omitempty"`
	Active   string    `json:"active_tab,omitempty"`
}

// Metric is one inbox health counter
type Metric struct {
	Slug         string `json:"category"`
	LabelID      string `json:"label"`
	Count        int    `json:"count"`
	DeltaID      string `json:"delta,omitempty"`
	DeltaInverse bool   `json:"delta_inverse,omitempty"`
}

// Tab lists one category's cards after filtering
type Tab struct {
	Slug    string `json:"category"`
	Key     string `json:"key"`
	LabelID string `json:"label"`
	Active  bool   `json:"active"`
	Total   int    `json:"total"`
	Cards   []Card `json:"cards"`
	EmptyID string `json:"empty,omitempty"`
}

// Card is one expandable email summary
type Card struct {
	ID          string `json:"id,omitempty"`
	Icon        string `json:"icon"`
	Header      string `json:"header"`
	Subject     string `json:"subject"`
	From        string `json:"from"`
	Snippet     string `json:"snippet"`
	Category    string `json:"category"`
	SenderCount int    `json:"sender_count"`
	Link        string `json:"link,omitempty"`
}

// Render derives the view from s. It has no side effects.
func Render(s State, opts RenderOptions) View {
	v := View{
		Synced:   s.Synced,
		SyncedAt: s.SyncedAt,
		StatusID: StatusWaiting,
		Query:    s.Query,
		Notice:   s.Notice,
	}
	if !s.Synced {
		return v
	}
	v.StatusID = StatusOnline

	active := opts.ActiveTab
	if _, ok := models.CategoryBySlug(active); !ok {
		active = models.Categories[0].Slug
	}
	v.Active = active

	for _, c := range models.Categories {
		emails := s.Categories[c.Key]

		v.Metrics = append(v.Metrics, Metric{
			Slug:         c.Slug,
			LabelID:      c.MetricID,
			Count:        len(emails),
			DeltaID:      c.DeltaID,
			DeltaInverse: c.DeltaInverse,
		})

		shown := Filter(emails, s.Query)
		tab := Tab{
			Slug:    c.Slug,
			Key:     c.Key,
			LabelID: c.TabLabelID,
			Active:  c.Slug == active,
			Total:   len(emails),
			Cards:   make([]Card, 0, len(shown)),
		}
		switch {
		case s.Query != "" && len(shown) == 0:
			tab.EmptyID = "no_matches"
		case s.Query == "" && len(emails) == 0:
			tab.EmptyID = "caught_up"
		}
		for _, e := range shown {
			tab.Cards = append(tab.Cards, newCard(c, e, opts.MessageURL))
		}
		v.Tabs = append(v.Tabs, tab)
	}
	return v
}

func newCard(c models.Category, e models.EmailSummary, messageURL string) Card {
	card := Card{
		ID:          e.ID,
		Icon:        c.Icon,
		Header:      CardHeader(c.Icon, e),
		Subject:     e.Subject,
		From:        e.From,
		Snippet:     e.Snippet,
		Category:    c.Key,
		SenderCount: e.SenderCount,
	}
	if e.ID != "" && messageURL != "" {
		card.Link = messageURL + url.PathEscape(e.ID)
	}
	return card
}

// CardHeader formats "{icon} {from} ({n}) | {subject}"; the count only
// appears for repeat senders.
func CardHeader(icon string, e models.EmailSummary) string {
	var b strings.Builder
	b.WriteString(icon)
	b.WriteByte(' ')
	b.WriteString(e.From)
	if e.SenderCount > 1 {
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(e.SenderCount))
		b.WriteByte(')')
	}
	b.WriteString(" | ")
	b.WriteString(e.Subject)
	return b.String()
}
