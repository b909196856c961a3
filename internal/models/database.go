package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// ErrNotFound is returned when a content item does not exist in the store
var ErrNotFound = bolthold.ErrNotFound

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Ping verifies the store is reachable
func (db *Database) Ping() error {
	return db.store.Bolt().View(func(tx *bbolt.Tx) error {
		return nil
	})
}

// Content operations

// CreateContent inserts a new content item and assigns its id
func (db *Database) CreateContent(item *ContentItem) error {
	item.CreatedAt = time.Now().UTC()
	return db.store.Insert(bolthold.NextSequence(), item)
}

// GetContentByID retrieves a content item by ID
func (db *Database) GetContentByID(id uint64) (*ContentItem, error) {
	var item ContentItem
	err := db.store.Get(id, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateContent replaces an existing content item
func (db *Database) UpdateContent(item *ContentItem) error {
	return db.store.Update(item.ID, item)
}

// UpdateContentField replaces a single editable field of a stored item.
// A tags value is re-normalized from its comma-separated form.
func (db *Database) UpdateContentField(id uint64, field EditableField, value string) error {
	item, err := db.GetContentByID(id)
	if err != nil {
		return err
	}

	switch field {
	case FieldTitle:
		item.Title = value
	case FieldThumbnail:
		item.ThumbnailURL = value
	case FieldTags:
		item.Tags = NormalizeTags(value)
	default:
		return fmt.Errorf("unknown editable field %q", field)
	}

	return db.store.Update(id, item)
}

// DeleteContent deletes a content item by ID
func (db *Database) DeleteContent(id uint64) error {
	return db.store.Delete(id, &ContentItem{})
}

// ListContent returns one page of content items sorted by creation time descending,
// optionally filtered by type and/or tag, plus the total match count.
func (db *Database) ListContent(page, limit int, typeFilter string, tagFilter string) ([]*ContentItem, int, error) {
	query := contentFilter(typeFilter, tagFilter)

	total, err := db.store.Count(&ContentItem{}, query)
	if err != nil {
		return nil, 0, err
	}

	var items []*ContentItem
	query = contentFilter(typeFilter, tagFilter).
		SortBy("CreatedAt").Reverse().
		Skip((page - 1) * limit).
		Limit(limit)
	if err := db.store.Find(&items, query); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// GetRecentContent returns the most recently created items
func (db *Database) GetRecentContent(limit int) ([]*ContentItem, error) {
	var items []*ContentItem
	query := (&bolthold.Query{}).SortBy("CreatedAt").Reverse().Limit(limit)
	err := db.store.Find(&items, query)
	return items, err
}

// GetSimilarContent returns items sharing at least one of the given tags,
// sorted by view count descending
func (db *Database) GetSimilarContent(tags []string, limit int) ([]*ContentItem, error) {
	if len(tags) == 0 {
		return []*ContentItem{}, nil
	}

	values := make([]interface{}, len(tags))
	for i, t := range tags {
		values[i] = t
	}

	var items []*ContentItem
	query := bolthold.Where("Tags").ContainsAny(values...).
		SortBy("Views").Reverse().
		Limit(limit)
	err := db.store.Find(&items, query)
	return items, err
}

// IncrementViews adds delta to the stored view counter in a single transaction
// and stamps the last-viewed time
func (db *Database) IncrementViews(id uint64, delta int64) error {
	found := false
	err := db.store.UpdateMatching(&ContentItem{}, bolthold.Where(bolthold.Key).Eq(id), func(record interface{}) error {
		item, ok := record.(*ContentItem)
		if !ok {
			return fmt.Errorf("unexpected record type %T", record)
		}
		now := time.Now().UTC()
		item.Views += delta
		item.LastViewed = &now
		found = true
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// contentFilter builds the list query for the given optional filters
func contentFilter(typeFilter string, tagFilter string) *bolthold.Query {
	switch {
	case typeFilter != "" && tagFilter != "":
		return bolthold.Where("Type").Eq(ContentType(typeFilter)).And("Tags").Contains(tagFilter)
	case typeFilter != "":
		return bolthold.Where("Type").Eq(ContentType(typeFilter))
	case tagFilter != "":
		return bolthold.Where("Tags").Contains(tagFilter)
	default:
		return &bolthold.Query{}
	}
}
