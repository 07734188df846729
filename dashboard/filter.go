package dashboard

import (
	"strings"

	"inboxdash/models"

	"golang.org/x/text/cases"
)

// Filter returns the emails whose subject or sender contains query,
// ignoring case. An empty query returns emails itself.
func Filter(emails []models.EmailSummary, query string) []models.EmailSummary {
	if query == "" {
		return emails
	}

	fold := cases.Fold()
	q := fold.String(query)

	matched := make([]models.EmailSummary, 0, len(emails))
	for _, e := range emails {
		if strings.Contains(fold.String(e.Subject), q) || strings.Contains(fold.String(e.From), q) {
			matched = append(matched, e)
		}
	}
	return matched
}
