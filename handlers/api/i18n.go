package api

import (
	"inboxdash/models"
	"inboxdash/utils"

	"github.com/gofiber/fiber/v2"
)

// clientMessages are the ids a script needs without a page render
var clientMessages = []string{
	"action_sync",
	"sync_in_progress",
	"notice_synced",
	"notice_not_authenticated",
	"notice_server_error",
	"notice_unreachable",
	"notice_rate_limited",
	"no_matches",
	"caught_up",
	"open_gmail",
	"error_network",
	"error_rate_limited",
	"error_404",
	"error_500",
}

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")

	// Only allow supported languages
	if !utils.IsSupportedLanguage(lang) {
		lang = "en"
	}

	localizer := utils.GetLocalizer(lang)

	translations := make(map[string]string, len(clientMessages)+2*len(models.Categories))
	for _, id := range clientMessages {
		translations[id] = utils.T(localizer, id)
	}
	for _, cat := range models.Categories {
		translations[cat.TabLabelID] = utils.T(localizer, cat.TabLabelID)
		translations[cat.MetricID] = utils.T(localizer, cat.MetricID)
	}

	return c.JSON(translations)
}
