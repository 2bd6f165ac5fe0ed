package handlers

import (
	"net/http"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
)

// APIHandler serves metadata endpoints.
type APIHandler struct{}

// NewAPIHandler creates the handler.
func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

// VersionHandler returns build version information.
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
