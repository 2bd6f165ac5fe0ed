package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/interfaces"
)

const defaultRunsLimit = 20

// RunsHandler exposes conversion run history.
type RunsHandler struct {
	runs   interfaces.RunStorage
	logger arbor.ILogger
}

// NewRunsHandler creates the handler. runs may be nil when run history is
// disabled; the endpoint then reports 404.
func NewRunsHandler(runs interfaces.RunStorage, logger arbor.ILogger) *RunsHandler {
	return &RunsHandler{runs: runs, logger: logger}
}

// ListRunsHandler returns recent run summaries, most recent first. The limit
// query parameter caps the result (default 20).
func (h *RunsHandler) ListRunsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if h.runs == nil {
		WriteError(w, http.StatusNotFound, "Run history is not enabled")
		return
	}

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list runs")
		WriteError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}
