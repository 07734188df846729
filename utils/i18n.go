package utils

import (
	"inboxdash/locales"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	// Bundle is the global translation bundle
	Bundle *i18n.Bundle
	// Localizer is the default localizer
	Localizer *i18n.Localizer
)

// SupportedLanguages are the languages that ship a message file
var SupportedLanguages = []string{"en", "ja"}

// InitI18n initializes the i18n system from the embedded message files
func InitI18n() error {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range locales.Files {
		if _, err := bundle.LoadMessageFileFS(locales.FS, file); err != nil {
			Log.Warn("Failed to load locale %s: %v", file, err)
		}
	}

	Bundle = bundle
	Localizer = i18n.NewLocalizer(Bundle, language.English.String())

	Log.Debug("i18n system initialized")
	return nil
}

// IsSupportedLanguage reports whether lang has a message file
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// GetLocalizer returns a localizer for the specified language
func GetLocalizer(lang string) *i18n.Localizer {
	if lang == "" {
		lang = "en"
	}
	return i18n.NewLocalizer(Bundle, lang)
}

// T translates a message ID
func T(localizer *i18n.Localizer, messageID string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// TWithData translates a message ID with template data
func TWithData(localizer *i18n.Localizer, messageID string, data map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// TPlural translates a message ID with plural support
func TPlural(localizer *i18n.Localizer, messageID string, count int) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:   messageID,
		PluralCount: count,
		TemplateData: map[string]interface{}{
			"Count": count,
		},
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}
