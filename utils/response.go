package utils

import (
	"encoding/json"
	"net/http"

	"wayfare/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithAppError maps a typed error onto an HTTP status.
func RespondWithAppError(w http.ResponseWriter, err error) {
	RespondWithError(w, apperr.Status(err), err.Error())
}

type M map[string]interface{}
