package handler

import (
	"encoding/json"
	"net/http"

	"railgriev/models"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	response := models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	}
	respondWithJSON(w, statusCode, response)
}

// respondWithValidationError sends a 400 with the per-field messages
func respondWithValidationError(w http.ResponseWriter, fields map[string]string) {
	response := models.ErrorResponse{
		Error:   "Validation error",
		Message: "One or more fields are invalid",
		Code:    http.StatusBadRequest,
		Fields:  fields,
	}
	respondWithJSON(w, http.StatusBadRequest, response)
}
