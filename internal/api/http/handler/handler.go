package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/seesakulchai/scc-api/internal/api/http/response"
	"github.com/seesakulchai/scc-api/internal/logger"
	"github.com/seesakulchai/scc-api/internal/model"
)

const maxBodyBytes = 1 << 20

// decode reads a body holding exactly one JSON value. Unknown fields are ignored.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must hold a single JSON value")
	}
	return nil
}

// handleError maps service errors to HTTP responses.
func handleError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		response.Fail(w, http.StatusBadRequest, response.MsgBadRequest)
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Fail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, model.ErrNotFound):
		response.Fail(w, http.StatusNotFound, response.MsgNotFound)
	default:
		log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
		response.Fail(w, http.StatusInternalServerError, response.MsgInternal)
	}
}
