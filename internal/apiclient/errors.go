package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTokenNotFound is returned by a TokenStore when the key is absent.
	ErrTokenNotFound = errors.New("token not found")
	// ErrRefreshFailed wraps every failure of the refresh cycle.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// HTTPError is returned for responses with a non-2xx status code.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(e.Body))
}

// IsUnauthorized reports whether err carries a 401 response.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized
}
