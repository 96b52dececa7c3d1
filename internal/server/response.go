package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("api request failed",
		"path", r.URL.Path,
		"request_id", RequestIDFrom(r.Context()),
		"error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
