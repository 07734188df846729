package dashboard

import (
	"time"

	"inboxdash/backend"
	"inboxdash/metrics"
	"inboxdash/models"
	"inboxdash/utils"
)

// Fetcher returns the latest categorized snapshot
type Fetcher interface {
	FetchResult() (models.CategoryMap, error)
}

// Sync performs a single fetch and folds the outcome into s. Failures
// never escape: they become a notice and the categories stay as they were.
func Sync(f Fetcher, s State) State {
	next, _ := Attempt(f, s)
	return next
}

// Attempt is Sync that also reports the fetch error, already folded
// into the returned state.
func Attempt(f Fetcher, s State) (State, error) {
	categories, err := f.FetchResult()
	if err != nil {
		kind := backend.KindOf(err)
		metrics.SyncTotal.WithLabelValues(string(kind)).Inc()
		utils.Log.WithField("kind", kind).Warn("Sync failed: %v", err)
		return Reduce(s, SyncFailed{Kind: kind}), err
	}

	metrics.SyncTotal.WithLabelValues("success").Inc()
	counts := make(map[string]interface{}, len(models.Categories))
	for _, c := range models.Categories {
		n := categories.Count(c.Key)
		counts[c.Slug] = n
		metrics.SyncedEmails.WithLabelValues(c.Slug).Set(float64(n))
	}
	utils.Log.WithFields(counts).Info("Inbox synced: %d categories", len(categories))

	return Reduce(s, SyncSucceeded{Categories: categories, At: time.Now()}), nil
}
