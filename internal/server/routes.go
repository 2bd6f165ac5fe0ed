package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/compatibility", s.app.CompatibilityHandler.GetCompatibilityHandler)
	mux.HandleFunc("/health", s.app.CompatibilityHandler.HealthHandler)
	mux.HandleFunc("/cache/clear", s.app.CompatibilityHandler.ClearCacheHandler)
	mux.HandleFunc("/runs", s.app.RunsHandler.ListRunsHandler)
	mux.HandleFunc("/version", s.app.APIHandler.VersionHandler)

	return mux
}
