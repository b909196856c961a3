package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/amaumene/streamhub/internal/views"
)

func TestTrackView(t *testing.T) {
	db, _ := newTestDeps(t)
	items := seedContent(t, db, 1)
	batcher := views.NewBatcher(db, testLogger())
	h := NewTrackHandler(batcher, testLogger())

	for i := 0; i < 3; i++ {
		body := strings.NewReader(`{"content_id": ` + strconv.FormatUint(items[0].ID, 10) + `}`)
		req := httptest.NewRequest(http.MethodPost, "/api/track-view", body)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
	}

	// Nothing hits the store until a flush cycle runs
	stored, err := db.GetContentByID(items[0].ID)
	if err != nil {
		t.Fatalf("GetContentByID failed: %v", err)
	}
	if stored.Views != 0 {
		t.Errorf("Expected no synchronous writes, views=%d", stored.Views)
	}

	if applied := batcher.Flush(); applied != 3 {
		t.Errorf("Expected flush to apply 3 views, got %d", applied)
	}
	stored, err = db.GetContentByID(items[0].ID)
	if err != nil {
		t.Fatalf("GetContentByID failed: %v", err)
	}
	if stored.Views != 3 {
		t.Errorf("Expected 3 stored views, got %d", stored.Views)
	}

	if applied := batcher.Flush(); applied != 0 {
		t.Errorf("Second flush must apply nothing, got %d", applied)
	}
}

func TestTrackViewValidation(t *testing.T) {
	db, _ := newTestDeps(t)
	batcher := views.NewBatcher(db, testLogger())
	h := NewTrackHandler(batcher, testLogger())

	for _, payload := range []string{`{}`, `not json`, `{"content_id": null}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/track-view", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %q, got %d", payload, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/track-view", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}
}
