// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// DateFormat is the human-facing creation date layout ("Mon D, YYYY").
const DateFormat = "Jan 2, 2006"

// Post represents a blog post document. Field names mirror the stored
// document keys, so a Post round-trips through the document store unchanged.
type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Emoji       string   `json:"emoji,omitempty"`
	Tags        []string `json:"tags"`
	// Date is assigned exactly once at creation and never overwritten by edits.
	Date string `json:"date"`
	// UpdatedAt is an RFC 3339 timestamp refreshed on every edit.
	UpdatedAt string `json:"updatedAt"`
}

// CreationDate returns the post's date parsed as a calendar day.
// A zero time is returned for missing or unparseable dates, which sorts
// such posts after every dated one.
func (p *Post) CreationDate() time.Time {
	t, err := time.Parse(DateFormat, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseTags splits a raw comma-separated tag string into a clean slice:
// whitespace trimmed, empty entries dropped, order preserved.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
