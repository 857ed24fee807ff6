package middleware

import (
	"net/http"

	apicontext "github.com/seesakulchai/scc-api/internal/api/context"
	"github.com/seesakulchai/scc-api/internal/api/http/response"
	"github.com/seesakulchai/scc-api/internal/logger"
)

// Recover turns a handler panic into a 500 without leaking its details.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("http handler panicked",
					"path", r.URL.Path,
					"panic", rec,
					"request_id", apicontext.RequestID(r.Context()))
				response.Fail(w, http.StatusInternalServerError, response.MsgInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
