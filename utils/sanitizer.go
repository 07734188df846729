package utils

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// MessagePolicy allows the inline formatting used in translations
var MessagePolicy *bluemonday.Policy

func init() {
	MessagePolicy = bluemonday.NewPolicy()
	MessagePolicy.AllowElements("strong", "em", "b", "i", "code", "br")
}

// SanitizeMessage makes a translated string with inline markup safe to
// insert into a template unescaped.
func SanitizeMessage(s string) template.HTML {
	return template.HTML(MessagePolicy.Sanitize(s))
}
