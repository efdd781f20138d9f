package cvelookup

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// RedactedText fills both fields when no authoritative match can be shown.
	RedactedText = "An external link was removed to protect your privacy."
	// NoTitle is used when a matched issue title carries no "|" segment.
	NoTitle = "No title available"

	titleDelimiter = "|"
)

// Request identifies one lookup.
type Request struct {
	Identifier string
	// Credential overrides the client's token when non-empty.
	Credential string
}

// Result is the link and display title for an identifier. Both fields are
// always populated.
type Result struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Redacted returns the sentinel pair used when nothing can be shown safely.
func Redacted() Result {
	return Result{URL: RedactedText, Title: RedactedText}
}

// IsRedacted reports whether r is the redaction pair.
func (r Result) IsRedacted() bool {
	return r.URL == RedactedText && r.Title == RedactedText
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	HTMLURL *string `json:"html_url"`
	Title   *string `json:"title"`
}

func parseSearchResponse(body []byte) (Result, error) {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(payload.Items) == 0 {
		return Redacted(), nil
	}
	first := payload.Items[0]
	if first.Title == nil || first.HTMLURL == nil || strings.TrimSpace(*first.HTMLURL) == "" {
		return Redacted(), nil
	}
	return Result{URL: *first.HTMLURL, Title: displayTitle(*first.Title)}, nil
}

// displayTitle keeps the segment between the first and second "|".
func displayTitle(raw string) string {
	parts := strings.Split(raw, titleDelimiter)
	if len(parts) < 2 {
		return NoTitle
	}
	title := strings.TrimSpace(parts[1])
	if title == "" {
		return NoTitle
	}
	return title
}
