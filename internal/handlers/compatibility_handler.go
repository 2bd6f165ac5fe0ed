package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/services/cache"
)

// CompatibilityHandler serves the compatibility document and the cache
// control endpoints.
type CompatibilityHandler struct {
	cache  *cache.Service
	logger arbor.ILogger
}

// NewCompatibilityHandler creates the handler.
func NewCompatibilityHandler(cacheService *cache.Service, logger arbor.ILogger) *CompatibilityHandler {
	return &CompatibilityHandler{cache: cacheService, logger: logger}
}

// GetCompatibilityHandler returns the current document. The cache decides
// whether to serve the slot or refresh; a refresh failure with no prior
// document yields 503.
func (h *CompatibilityHandler) GetCompatibilityHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data, err := h.cache.Get(r.Context())
	if err != nil {
		if errors.Is(err, cache.ErrUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, "Compatibility data is temporarily unavailable")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to serve compatibility document")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HealthHandler reports service liveness plus cache freshness.
func (h *CompatibilityHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	// cache_age_seconds is null until a document has been fetched.
	var cacheAge interface{}
	if age, ok := h.cache.Age(); ok {
		cacheAge = int(age.Seconds())
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"cache_age_seconds": cacheAge,
		"cache_ttl_seconds": int(h.cache.TTL().Seconds()),
	})
}

// ClearCacheHandler empties the cache slot so the next read refetches.
func (h *CompatibilityHandler) ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	h.cache.Clear()
	WriteSuccess(w, "Cache cleared")
}
