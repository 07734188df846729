package models

// Category is one of the fixed triage buckets the backend sorts mail into
type Category struct {
	Slug         string // URL-safe tab id
	Key          string // label used by the backend
	Icon         string
	TabLabelID   string // i18n message ids
	MetricID     string
	DeltaID      string
	DeltaInverse bool
}

// Backend category labels.
const (
	KeyActionRequired = "🚨 Action Required"
	KeyApplications   = "⏳ Applications & Updates"
	KeyUniversity     = "🎓 University & Learning"
	KeyPromotions     = "🗑️ Promotions & Noise"
)

// Categories lists the buckets in display order.
var Categories = []Category{
	{
		Slug:         "action",
		Key:          KeyActionRequired,
		Icon:         "🔴",
		TabLabelID:   "tab_action",
		MetricID:     "metric_action",
		DeltaID:      "delta_do_now",
		DeltaInverse: true,
	},
	{
		Slug:       "applications",
		Key:        KeyApplications,
		Icon:       "🟠",
		TabLabelID: "tab_applications",
		MetricID:   "metric_applications",
		DeltaID:    "delta_waiting",
	},
	{
		Slug:       "university",
		Key:        KeyUniversity,
		Icon:       "🔵",
		TabLabelID: "tab_university",
		MetricID:   "metric_university",
	},
	{
		Slug:       "promotions",
		Key:        KeyPromotions,
		Icon:       "📓",
		TabLabelID: "tab_promotions",
		MetricID:   "metric_promotions",
	},
}

// CategoryBySlug finds a category by its tab id.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}
