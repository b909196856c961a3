package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/cache"
	"github.com/amaumene/streamhub/internal/models"
)

// AdminHandler serves the authenticated write endpoints
type AdminHandler struct {
	db     *models.Database
	cache  *cache.ResponseCache
	logger *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *models.Database, respCache *cache.ResponseCache, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		db:     db,
		cache:  respCache,
		logger: logger,
	}
}

type createContentRequest struct {
	Title        string              `json:"title"`
	Type         string              `json:"type"`
	ThumbnailURL string              `json:"thumbnail_url"`
	Tags         string              `json:"tags"`
	Links        []models.StreamLink `json:"links"`
}

// ServeCreate handles POST /api/admin/content
func (h *AdminHandler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required.")
		return
	}
	if len(req.Links) == 0 {
		writeError(w, http.StatusBadRequest, "at least one link is required.")
		return
	}

	item := &models.ContentItem{
		Title:        req.Title,
		Type:         models.ContentType(req.Type),
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		Tags:         models.NormalizeTags(req.Tags),
		Links:        req.Links,
	}

	if err := h.db.CreateContent(item); err != nil {
		h.logger.WithError(err).Error("Failed to create content")
		writeError(w, http.StatusInternalServerError, "Failed to create content.")
		return
	}

	h.cache.InvalidateAll()
	h.logger.WithFields(logrus.Fields{
		"content_id": item.ID,
		"title":      item.Title,
	}).Info("Content created via admin API")
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: item})
}

// ServeDelete handles DELETE /api/admin/content/<id>
func (h *AdminHandler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/api/admin/content/")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid content id.")
		return
	}

	if err := h.db.DeleteContent(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Content not found.")
			return
		}
		h.logger.WithError(err).WithField("content_id", id).Error("Failed to delete content")
		writeError(w, http.StatusInternalServerError, "Failed to delete content.")
		return
	}

	h.cache.InvalidateAll()
	h.logger.WithField("content_id", id).Info("Content deleted via admin API")
	w.WriteHeader(http.StatusNoContent)
}
