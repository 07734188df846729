package models

import (
	"bytes"
	"encoding/json"
	"math"
)

const (
	DefaultSubject = "(No Subject)"
	DefaultSender  = "Unknown"

	StatusSuccess = "success"
)

// EmailSummary is one triaged message as the backend reports it
type EmailSummary struct {
	ID          string `json:"id,omitempty"`
	Subject     string `json:"subject"`
	From        string `json:"from"`
	Snippet     string `json:"snippet"`
	SenderCount int    `json:"sender_count"`
}

// UnmarshalJSON fills in defaults for missing or null fields. The id may
// be a string or a number and sender_count any JSON number.
func (e *EmailSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Subject     *string         `json:"subject"`
		From        *string         `json:"from"`
		Snippet     *string         `json:"snippet"`
		SenderCount json.RawMessage `json:"sender_count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = EmailSummary{
		ID:          looseString(raw.ID),
		Subject:     DefaultSubject,
		From:        DefaultSender,
		SenderCount: senderCount(raw.SenderCount),
	}
	if raw.Subject != nil {
		e.Subject = *raw.Subject
	}
	if raw.From != nil {
		e.From = *raw.From
	}
	if raw.Snippet != nil {
		e.Snippet = *raw.Snippet
	}
	return nil
}

// looseString reads a JSON string or number; anything else is empty.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// senderCount reads a JSON number (or numeric string) and clamps it to at
// least 1. Fractions are truncated.
func senderCount(raw json.RawMessage) int {
	f, err := json.Number(looseString(raw)).Float64()
	if err != nil || math.IsNaN(f) || f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// CategoryMap maps a backend category label to its summaries in backend order
type CategoryMap map[string][]EmailSummary

// Count returns the number of summaries under label.
func (m CategoryMap) Count(label string) int {
	return len(m[label])
}

// ResultResponse is the body of GET /result
type ResultResponse struct {
	Status     string      `json:"status"`
	Categories CategoryMap `json:"categories"`
}
