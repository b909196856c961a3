package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/cache"
	"github.com/amaumene/streamhub/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
	similarLimit    = 10
)

// ContentHandler serves the read-only content endpoints, backed by the
// response cache
type ContentHandler struct {
	db     *models.Database
	cache  *cache.ResponseCache
	logger *logrus.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(db *models.Database, respCache *cache.ResponseCache, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{
		db:     db,
		cache:  respCache,
		logger: logger,
	}
}

// ServeList handles GET /api/content
func (h *ContentHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := cache.Key(r.URL.Path, r.URL.Query())
	if resp, ok := h.cache.Lookup(key); ok {
		writeCached(w, resp)
		return
	}

	page := clampPage(r.URL.Query().Get("page"))
	limit := clampLimit(r.URL.Query().Get("limit"))
	typeFilter := r.URL.Query().Get("type")
	tagFilter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag")))

	items, total, err := h.db.ListContent(page, limit, typeFilter, tagFilter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list content")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve content.")
		return
	}
	if items == nil {
		items = []*models.ContentItem{}
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	body, err := marshalJSON(envelope{
		Success: true,
		Data:    items,
		Count:   len(items),
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode content list")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve content.")
		return
	}

	h.cache.Store(key, &cache.CachedResponse{Status: http.StatusOK, ContentType: "application/json", Body: body})
	writeBody(w, http.StatusOK, body)
}

// ServeItem handles GET /api/content/<id> and GET /api/content/similar/<tags>
func (h *ContentHandler) ServeItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/content/")
	if tags, ok := strings.CutPrefix(rest, "similar/"); ok {
		h.serveSimilar(w, r, tags)
		return
	}
	h.serveByID(w, r, rest)
}

// serveByID fetches a single item
func (h *ContentHandler) serveByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid content id.")
		return
	}

	key := cache.Key(r.URL.Path, r.URL.Query())
	if resp, ok := h.cache.Lookup(key); ok {
		writeCached(w, resp)
		return
	}

	item, err := h.db.GetContentByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Content not found.")
			return
		}
		h.logger.WithError(err).WithField("content_id", id).Error("Failed to fetch content")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve content.")
		return
	}

	body, err := marshalJSON(envelope{Success: true, Data: item})
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode content item")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve content.")
		return
	}

	h.cache.Store(key, &cache.CachedResponse{Status: http.StatusOK, ContentType: "application/json", Body: body})
	writeBody(w, http.StatusOK, body)
}

// serveSimilar fetches items sharing at least one tag, most viewed first
func (h *ContentHandler) serveSimilar(w http.ResponseWriter, r *http.Request, rawTags string) {
	key := cache.Key(r.URL.Path, r.URL.Query())
	if resp, ok := h.cache.Lookup(key); ok {
		writeCached(w, resp)
		return
	}

	tags := models.NormalizeTags(rawTags)
	items, err := h.db.GetSimilarContent(tags, similarLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch similar content")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve similar content.")
		return
	}
	if items == nil {
		items = []*models.ContentItem{}
	}

	body, err := marshalJSON(envelope{Success: true, Data: items, Count: len(items)})
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode similar content")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve similar content.")
		return
	}

	h.cache.Store(key, &cache.CachedResponse{Status: http.StatusOK, ContentType: "application/json", Body: body})
	writeBody(w, http.StatusOK, body)
}

// clampPage parses the page parameter, falling back to 1
func clampPage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// clampLimit parses the limit parameter, defaulting to 20 and capping at 50
func clampLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
