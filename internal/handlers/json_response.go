package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON is the exported variant for inline handlers registered
// outside this package (root and health endpoints).
func WriteJSON(w http.ResponseWriter, status int, body any) {
	writeJSON(w, status, body)
}

// writeJSONError emits the {"error": "..."} body every failure carries.
// Internal detail stays in the server log; clients get a generic message.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
