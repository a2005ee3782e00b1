// Package httpx holds the JSON response helpers and the error boundary
// shared by every API handler.
package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// maxBody caps request bodies read by Decode.
const maxBody = 1 << 20

// Decode reads a JSON body into dst. Malformed or oversized bodies are
// reported as a validation error.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return BadRequest("invalid_json")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		return &Error{Kind: KindValidation, Code: "invalid_json", Err: err}
	}
	return nil
}

// IsForm reports whether the request carries an HTML form body.
func IsForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}
