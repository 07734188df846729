package dashboard

import (
	"errors"
	"testing"
	"time"

	"inboxdash/backend"
	"inboxdash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	categories models.CategoryMap
	err        error
	calls      int
}

func (f *fakeFetcher) FetchResult() (models.CategoryMap, error) {
	f.calls++
	return f.categories, f.err
}

func sample() models.CategoryMap {
	return models.CategoryMap{
		models.KeyActionRequired: {
			{ID: "1", Subject: "Test", From: "a@b.com", Snippet: "hi", SenderCount: 2},
			{ID: "2", Subject: "Interview on Monday", From: "Recruiter <jobs@corp.com>", SenderCount: 1},
		},
		models.KeyApplications: {
			{ID: "3", Subject: "Application received", From: "careers@corp.com", SenderCount: 1},
		},
		models.KeyPromotions: {
			{Subject: "50% OFF", From: "shop@store.com", SenderCount: 7},
			{ID: "5", Subject: "Weekly digest", From: "news@STORE.com", SenderCount: 1},
			{ID: "6", Subject: "Flash sale", From: "deals@other.com", SenderCount: 1},
		},
		"📦 Unknown Bucket": {
			{ID: "9", Subject: "ignored", From: "x@y.z", SenderCount: 1},
		},
	}
}

func synced(m models.CategoryMap) State {
	return Reduce(State{}, SyncSucceeded{Categories: m, At: time.Unix(0, 0)})
}

func TestFilterIdentityOnEmptyQuery(t *testing.T) {
	emails := sample()[models.KeyPromotions]
	got := Filter(emails, "")

	require.Len(t, got, len(emails))
	assert.Same(t, &emails[0], &got[0], "empty query returns the same slice")
}

func TestFilterMatchesSubjectOrSenderIgnoringCase(t *testing.T) {
	emails := sample()[models.KeyPromotions]

	got := Filter(emails, "store.COM")
	require.Len(t, got, 2)
	assert.Equal(t, "50% OFF", got[0].Subject, "order is preserved")
	assert.Equal(t, "Weekly digest", got[1].Subject)

	got = Filter(emails, "flash")
	require.Len(t, got, 1)
	assert.Equal(t, "6", got[0].ID)

	assert.Empty(t, Filter(emails, "nothing like this"))
	assert.Empty(t, Filter(nil, "x"))
}

func TestFilterUsesUnicodeFolding(t *testing.T) {
	emails := []models.EmailSummary{{Subject: "Straße gesperrt", From: "ÉCOLE <e@x.fr>"}}

	assert.Len(t, Filter(emails, "STRASSE"), 1)
	assert.Len(t, Filter(emails, "école"), 1)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := State{Query: "old"}
	after := Reduce(before, QueryChanged{Query: "new"})

	assert.Equal(t, "old", before.Query)
	assert.Equal(t, "new", after.Query)
	assert.Equal(t, before, Reduce(before, nil))
}

func TestSyncSuccessReplacesCategories(t *testing.T) {
	prior := synced(models.CategoryMap{models.KeyUniversity: {{Subject: "old"}}})
	f := &fakeFetcher{categories: sample()}

	next := Sync(f, prior)

	assert.Equal(t, 1, f.calls)
	assert.True(t, next.Synced)
	assert.Equal(t, 0, next.Categories.Count(models.KeyUniversity), "replaced wholesale")
	assert.Equal(t, 2, next.Categories.Count(models.KeyActionRequired))
	require.NotNil(t, next.Notice)
	assert.Equal(t, Notice{Level: LevelSuccess, MessageID: "notice_synced"}, *next.Notice)
}

func TestSyncFailuresKeepState(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		notice Notice
	}{
		{"pending", &backend.SyncError{Kind: backend.NotAuthenticated, Status: "pending"}, Notice{LevelWarning, "notice_not_authenticated"}},
		{"server", &backend.SyncError{Kind: backend.ServerError, StatusCode: 500}, Notice{LevelError, "notice_server_error"}},
		{"timeout", &backend.SyncError{Kind: backend.BackendUnreachable, Err: errors.New("timeout")}, Notice{LevelError, "notice_unreachable"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prior := Reduce(synced(sample()), NoticeDismissed{})
			prior = Reduce(prior, QueryChanged{Query: "store"})

			next := Sync(&fakeFetcher{err: tc.err}, prior)

			assert.Equal(t, prior.Synced, next.Synced)
			assert.Equal(t, prior.SyncedAt, next.SyncedAt)
			assert.Equal(t, prior.Categories, next.Categories)
			assert.Equal(t, "store", next.Query)
			require.NotNil(t, next.Notice)
			assert.Equal(t, tc.notice, *next.Notice)
			assert.Nil(t, prior.Notice)
		})
	}
}

func TestSyncFailureBeforeFirstSyncStaysIdle(t *testing.T) {
	next := Sync(&fakeFetcher{err: &backend.SyncError{Kind: backend.NotAuthenticated}}, State{})

	assert.False(t, next.Synced)
	assert.Nil(t, next.Categories)
	assert.Equal(t, StatusWaiting, Render(next, RenderOptions{}).StatusID)
}

func TestRenderIdle(t *testing.T) {
	v := Render(State{Query: "x"}, RenderOptions{})

	assert.False(t, v.Synced)
	assert.Equal(t, StatusWaiting, v.StatusID)
	assert.Empty(t, v.Metrics)
	assert.Empty(t, v.Tabs)
	assert.Equal(t, "x", v.Query)
}

func TestRenderMetricsMatchListLengths(t *testing.T) {
	m := sample()
	v := Render(synced(m), RenderOptions{})

	assert.Equal(t, StatusOnline, v.StatusID)
	require.Len(t, v.Metrics, 4)
	for i, c := range models.Categories {
		assert.Equal(t, c.Slug, v.Metrics[i].Slug)
		assert.Equal(t, len(m[c.Key]), v.Metrics[i].Count, c.Key)
	}
	assert.Equal(t, "metric_action", v.Metrics[0].LabelID)
	assert.True(t, v.Metrics[0].DeltaInverse)
	assert.Equal(t, "delta_waiting", v.Metrics[1].DeltaID)
	assert.Len(t, v.Tabs, 4, "unrecognized labels are ignored")
}

func TestRenderMetricsIgnoreQuery(t *testing.T) {
	s := Reduce(synced(sample()), QueryChanged{Query: "flash"})
	v := Render(s, RenderOptions{})

	assert.Equal(t, 3, v.Metrics[3].Count)
	assert.Len(t, v.Tabs[3].Cards, 1)
	assert.Equal(t, 3, v.Tabs[3].Total)
}

func TestRenderBackendFixture(t *testing.T) {
	m := models.CategoryMap{
		models.KeyActionRequired: {{ID: "1", Subject: "Test", From: "a@b.com", Snippet: "hi", SenderCount: 2}},
	}
	v := Render(synced(m), RenderOptions{MessageURL: "https://mail.google.com/mail/u/0/#inbox/"})

	assert.Equal(t, 1, v.Metrics[0].Count)
	card := v.Tabs[0].Cards[0]
	assert.Equal(t, "🔴 a@b.com (2) | Test", card.Header)
	assert.Contains(t, card.Header, "(2)")
	assert.Equal(t, "https://mail.google.com/mail/u/0/#inbox/1", card.Link)
	assert.Equal(t, models.KeyActionRequired, card.Category)
}

func TestRenderCardHeaderSingleSender(t *testing.T) {
	e := models.EmailSummary{Subject: "Hello", From: "x@y.z", SenderCount: 1}
	assert.Equal(t, "🔵 x@y.z | Hello", CardHeader("🔵", e))
}

func TestRenderCardWithoutIDHasNoLink(t *testing.T) {
	v := Render(synced(sample()), RenderOptions{MessageURL: "https://mail.example/#inbox/"})

	promo := v.Tabs[3]
	assert.Equal(t, "📓", promo.Cards[0].Icon)
	assert.Empty(t, promo.Cards[0].Link)
	assert.Equal(t, "https://mail.example/#inbox/5", promo.Cards[1].Link)
}

func TestRenderEmptyMessages(t *testing.T) {
	v := Render(synced(sample()), RenderOptions{})
	assert.Equal(t, "caught_up", v.Tabs[2].EmptyID, "university is empty")
	assert.Empty(t, v.Tabs[0].EmptyID)

	v = Render(Reduce(synced(sample()), QueryChanged{Query: "zzz"}), RenderOptions{})
	for _, tab := range v.Tabs {
		assert.Equal(t, "no_matches", tab.EmptyID, tab.Slug)
		assert.Empty(t, tab.Cards)
	}
}

func TestRenderActiveTab(t *testing.T) {
	s := synced(sample())

	v := Render(s, RenderOptions{ActiveTab: "promotions"})
	assert.Equal(t, "promotions", v.Active)
	assert.True(t, v.Tabs[3].Active)
	assert.False(t, v.Tabs[0].Active)

	v = Render(s, RenderOptions{ActiveTab: "bogus"})
	assert.Equal(t, "action", v.Active)
	assert.True(t, v.Tabs[0].Active)
}

func TestRenderIsDeterministic(t *testing.T) {
	s := synced(sample())
	opts := RenderOptions{ActiveTab: "applications", MessageURL: "https://m/"}
	assert.Equal(t, Render(s, opts), Render(s, opts))
}

func TestNoticeShownOnce(t *testing.T) {
	s := synced(sample())
	require.NotNil(t, Render(s, RenderOptions{}).Notice)

	s = Reduce(s, NoticeDismissed{})
	assert.Nil(t, Render(s, RenderOptions{}).Notice)
}

func TestRateLimitedNotice(t *testing.T) {
	s := Reduce(synced(sample()), SyncRateLimited{})
	require.NotNil(t, s.Notice)
	assert.Equal(t, "notice_rate_limited", s.Notice.MessageID)
	assert.Equal(t, 2, s.Categories.Count(models.KeyActionRequired))
}
