package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// apiResponse is the envelope every endpoint answers with, success or not.
type apiResponse struct {
	Success bool                   `json:"success"`
	Data    *domain.AnalysisResult `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func writeResult(w http.ResponseWriter, status int, res domain.AnalysisResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Data: &res})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}
