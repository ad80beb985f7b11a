// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"net/http"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes the standardized failure body:
// {"success": false, "error": <label>, "message": <detail>}.
func RespondWithError(w http.ResponseWriter, code int, label, message string) {
	RespondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   label,
		"message": message,
	})
}

// respondStoreUnavailable is the common 503 body for endpoints that need the
// data store while it is down.
func respondStoreUnavailable(w http.ResponseWriter) {
	RespondWithError(w, http.StatusServiceUnavailable, "Database not available",
		"data store is unreachable - database features are disabled")
}
