package network

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrLinkExpired is returned by Download when the server no longer serves the link.
	ErrLinkExpired = errors.New("download link expired")
	ErrNoBaseURL   = errors.New("base url is required")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, e.Message)
}

// ServerMessage returns the message the server attached to err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// errorBody matches the {"error": "..."} and {"message": "..."} envelopes.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FilePart is one file of a multipart upload.
type FilePart struct {
	Field string
	Path  string
}
