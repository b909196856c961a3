package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/cache"
	"github.com/amaumene/streamhub/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestDeps(t *testing.T) (*models.Database, *cache.ResponseCache) {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, cache.NewResponseCache(time.Minute, 64, testLogger())
}

func seedContent(t *testing.T, db *models.Database, n int) []*models.ContentItem {
	t.Helper()
	items := make([]*models.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		item := &models.ContentItem{
			Title: fmt.Sprintf("Item %d", i),
			Type:  models.ContentTypeVideo,
			Tags:  []string{"seed"},
			Links: []models.StreamLink{{EpisodeTitle: "L", URL: "http://x"}},
		}
		if err := db.CreateContent(item); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		items = append(items, item)
	}
	return items
}

type listResponse struct {
	Success    bool                  `json:"success"`
	Data       []*models.ContentItem `json:"data"`
	Count      int                   `json:"count"`
	Pagination *Pagination           `json:"pagination"`
}

func doList(t *testing.T, h *ContentHandler, target string) (*httptest.ResponseRecorder, listResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	var body listResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return rec, body
}

func TestListPaginationClamps(t *testing.T) {
	db, respCache := newTestDeps(t)
	seedContent(t, db, 60)
	h := NewContentHandler(db, respCache, testLogger())

	rec, body := doList(t, h, "/api/content?limit=1000")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body.Pagination.Limit != 50 {
		t.Errorf("Expected limit clamped to 50, got %d", body.Pagination.Limit)
	}
	if len(body.Data) != 50 {
		t.Errorf("Expected 50 items, got %d", len(body.Data))
	}
	if body.Pagination.Total != 60 || body.Pagination.Pages != 2 {
		t.Errorf("Unexpected pagination: %+v", body.Pagination)
	}

	_, body = doList(t, h, "/api/content?page=0")
	if body.Pagination.Page != 1 {
		t.Errorf("Expected page clamped to 1, got %d", body.Pagination.Page)
	}

	_, body = doList(t, h, "/api/content?page=-3&limit=-1")
	if body.Pagination.Page != 1 || body.Pagination.Limit != 20 {
		t.Errorf("Expected defaults for negative params, got %+v", body.Pagination)
	}
}

func TestListUsesCache(t *testing.T) {
	db, respCache := newTestDeps(t)
	seedContent(t, db, 1)
	h := NewContentHandler(db, respCache, testLogger())

	rec1, _ := doList(t, h, "/api/content?page=1&limit=20")
	// Same query in a different parameter order must hit the cached entry
	rec2, _ := doList(t, h, "/api/content?limit=20&page=1")

	if rec1.Body.String() != rec2.Body.String() {
		t.Error("Expected identical cached response")
	}
	if respCache.Len() != 1 {
		t.Errorf("Expected a single cache entry, got %d", respCache.Len())
	}

	// A write invalidates; next read repopulates
	respCache.InvalidateAll()
	if respCache.Len() != 0 {
		t.Error("Expected empty cache after invalidation")
	}
	doList(t, h, "/api/content?page=1&limit=20")
	if respCache.Len() != 1 {
		t.Errorf("Expected cache repopulated, got %d entries", respCache.Len())
	}
}

func TestGetByID(t *testing.T) {
	db, respCache := newTestDeps(t)
	items := seedContent(t, db, 1)
	h := NewContentHandler(db, respCache, testLogger())

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/content/%d", items[0].ID), nil)
	rec := httptest.NewRecorder()
	h.ServeItem(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/content/999999", nil)
	rec = httptest.NewRecorder()
	h.ServeItem(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing item, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/content/not-an-id", nil)
	rec = httptest.NewRecorder()
	h.ServeItem(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestSimilarSortedByViews(t *testing.T) {
	db, respCache := newTestDeps(t)
	h := NewContentHandler(db, respCache, testLogger())

	for i, views := range []int64{3, 30, 12} {
		item := &models.ContentItem{
			Title: fmt.Sprintf("S%d", i),
			Tags:  []string{"shared"},
			Views: views,
			Links: []models.StreamLink{{URL: "http://x"}},
		}
		if err := db.CreateContent(item); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/content/similar/Shared,%20other", nil)
	rec := httptest.NewRecorder()
	h.ServeItem(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(body.Data) != 3 {
		t.Fatalf("Expected 3 similar items, got %d", len(body.Data))
	}
	if body.Data[0].Views != 30 || body.Data[1].Views != 12 || body.Data[2].Views != 3 {
		t.Errorf("Expected views-descending order, got %d %d %d",
			body.Data[0].Views, body.Data[1].Views, body.Data[2].Views)
	}
}
