package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/views"
)

// TrackHandler accepts view-tracking pings from the frontend
type TrackHandler struct {
	batcher *views.Batcher
	logger  *logrus.Logger
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(batcher *views.Batcher, logger *logrus.Logger) *TrackHandler {
	return &TrackHandler{batcher: batcher, logger: logger}
}

type trackRequest struct {
	ContentID *uint64 `json:"content_id"`
}

// ServeHTTP handles POST /api/track-view. The increment is recorded in
// memory only; the flush cycle writes it to the store later.
func (h *TrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.ContentID == nil {
		writeError(w, http.StatusBadRequest, "content_id is required.")
		return
	}

	h.batcher.RecordView(*req.ContentID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
