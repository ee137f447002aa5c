package handlers

import (
	"encoding/json"
	"net/http"

	"jyotikabilling/config"
)

var logger = config.GetLogger()

// ApiResponse is the envelope for auth, clinic and error responses.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, errs ...string) {
	writeJSON(w, status, ApiResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
