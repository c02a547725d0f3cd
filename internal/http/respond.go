package http

import (
	"encoding/json"
	"net/http"

	applog "pots/internal/log"
)

// writeJSON encodes v as the response body. Every success path goes
// through here so the API keeps a single response shape.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr emits a JSON error envelope.
func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeInternalErr logs err and hides its detail from the client.
func writeInternalErr(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path, applog.FieldError, err)
	writeErr(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
