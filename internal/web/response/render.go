// Package response renders JSON responses and errors for the cookbook API.
package response

import (
	"encoding/json"
	"net/http"
)

// RenderJSON writes v as a JSON response with the given status code
func RenderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// RenderRaw writes a pre-encoded JSON body with the given status code.
// Used when a response was cached in its rendered form.
func RenderRaw(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(body)
}
