// Package dashboard holds the per-session dashboard state and the pure
// operations over it: reduce, sync, filter and render.
package dashboard

import (
	"time"

	"inboxdash/backend"
	"inboxdash/models"
)

// NoticeLevel selects how a notice is styled
type NoticeLevel string

const (
	LevelSuccess NoticeLevel = "success"
	LevelWarning NoticeLevel = "warning"
	LevelError   NoticeLevel = "error"
)

// Notice is a one-shot status message shown on the next render
type Notice struct {
	Level     NoticeLevel
	MessageID string
}

// State is everything a session remembers between requests. The zero
// value is a fresh session that has never synced.
type State struct {
	Synced     bool
	SyncedAt   time.Time
	Categories models.CategoryMap
	Query      string
	Notice     *Notice
}

// Event is a state transition
type Event interface {
	apply(State) State
}

// Reduce returns the state after e. s is not modified.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

// SyncSucceeded replaces the categories wholesale
type SyncSucceeded struct {
	Categories models.CategoryMap
	At         time.Time
}

func (e SyncSucceeded) apply(s State) State {
	s.Synced = true
	s.SyncedAt = e.At
	s.Categories = e.Categories
	if s.Categories == nil {
		s.Categories = models.CategoryMap{}
	}
	s.Notice = &Notice{Level: LevelSuccess, MessageID: "notice_synced"}
	return s
}

// SyncFailed keeps the categories and reports why
type SyncFailed struct {
	Kind backend.FailureKind
}

func (e SyncFailed) apply(s State) State {
	n := NoticeFor(e.Kind)
	s.Notice = &n
	return s
}

// SyncRateLimited reports a sync that was never attempted
type SyncRateLimited struct{}

func (SyncRateLimited) apply(s State) State {
	s.Notice = &Notice{Level: LevelWarning, MessageID: "notice_rate_limited"}
	return s
}

// QueryChanged sets the search filter
type QueryChanged struct {
	Query string
}

func (e QueryChanged) apply(s State) State {
	s.Query = e.Query
	return s
}

// NoticeDismissed clears the notice once it has been shown
type NoticeDismissed struct{}

func (NoticeDismissed) apply(s State) State {
	s.Notice = nil
	return s
}

// NoticeFor maps a sync failure to its user-facing notice.
func NoticeFor(kind backend.FailureKind) Notice {
	switch kind {
	case backend.NotAuthenticated:
		return Notice{Level: LevelWarning, MessageID: "notice_not_authenticated"}
	case backend.ServerError:
		return Notice{Level: LevelError, MessageID: "notice_server_error"}
	default:
		return Notice{Level: LevelError, MessageID: "notice_unreachable"}
	}
}
