// Package locales embeds the go-i18n message files.
package locales

import "embed"

//go:embed active.*.toml
var FS embed.FS

// Files lists the message files in load order; the first is the fallback.
var Files = []string{"active.en.toml", "active.ja.toml"}
