package ready

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the reporting API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ready: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}
