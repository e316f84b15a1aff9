package api

import "net/http"

type messageResponse struct {
	Message string `json:"message"`
}

type connectionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RootHandler serves the liveness endpoints.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Employee Performance Summary API"})
}

// HandleTestConnection handles GET /test-connection/ requests.
func (h *RootHandler) HandleTestConnection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, connectionResponse{Status: "ok", Message: "Connection successful"})
}
