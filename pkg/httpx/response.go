package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteValue writes a success envelope {"value": v} with status 200.
func WriteValue(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, map[string]any{"value": v})
}

// WriteError writes a failure envelope {"error": {"code", "description"}}.
// The status code is informational only, clients read the envelope.
func WriteError(w http.ResponseWriter, code int, e *authsdk.Error) {
	WriteJSON(w, code, authsdk.Envelope{Error: e})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
