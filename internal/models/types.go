package models

// ContentType represents the kind of catalog entry
type ContentType string

const (
	ContentTypeVideo  ContentType = "Video"
	ContentTypeSeries ContentType = "Series"
)

// EditableField identifies a ContentItem field the bot edit flow may replace
type EditableField string

const (
	FieldTitle     EditableField = "title"
	FieldThumbnail EditableField = "thumbnail_url"
	FieldTags      EditableField = "tags"
)

// KnownEditableField reports whether f is one of the fields the edit flow supports
func KnownEditableField(f string) bool {
	switch EditableField(f) {
	case FieldTitle, FieldThumbnail, FieldTags:
		return true
	}
	return false
}
