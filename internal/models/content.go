package models

import (
	"strings"
	"time"
)

// ContentItem represents a catalog entry (a standalone video or a series)
type ContentItem struct {
	ID uint64 `boltholdKey:"ID" json:"id"`

	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	ThumbnailURL string      `json:"thumbnail_url"`

	// Tags are always lowercase, trimmed and non-empty
	Tags []string `boltholdSliceIndex:"Tags" json:"tags"`

	// Links are the streaming links in upload order
	Links []StreamLink `json:"links"`

	Views int64 `boltholdIndex:"Views" json:"views"`

	CreatedAt  time.Time  `boltholdIndex:"CreatedAt" json:"created_at"`
	LastViewed *time.Time `json:"last_viewed,omitempty"`
}

// StreamLink is a single named streaming URL of a content item
type StreamLink struct {
	EpisodeTitle string `json:"episode_title"`
	URL          string `json:"url"`
}

// NormalizeTags splits a comma-separated tag string into lowercase trimmed tokens,
// dropping empty entries
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
