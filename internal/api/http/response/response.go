// Package response writes the JSON envelopes shared by all HTTP endpoints.
package response

import (
	"encoding/json"
	"net/http"
)

// Standard error messages.
const (
	MsgBadRequest   = "Bad request"
	MsgUnauthorized = "Unauthorized"
	MsgInternal     = "Internal server error"
	MsgNotFound     = "Not found"
)

// Error is the body of every failed request.
type Error struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes {"ok":false,"message":msg}.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Error{OK: false, Message: msg})
}

// OK writes {"ok":true}.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}
