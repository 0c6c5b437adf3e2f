package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform success wrapper every endpoint returns.
type Envelope struct {
	Data       any `json:"data"`
	StatusCode int `json:"statusCode"`
}

// WriteJSON writes a JSON response with the given status code. It sets the
// Content-Type and no-store caching headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps payload in the success envelope and writes it.
func WriteData(w http.ResponseWriter, code int, payload any) {
	WriteJSON(w, code, Envelope{Data: payload, StatusCode: code})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying tokens or one-time codes.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
