package services

import (
	"fmt"
	"net/http"
)

var (
	ErrServerUnreachable = fmt.Errorf("gallery server unreachable")
	ErrInvalidResponse   = fmt.Errorf("invalid response from gallery server")
)

/*
APIError is a non-OK response from the gallery server. Message and
Redirect are whatever the JSON body carried, and may both be empty.
*/
type APIError struct {
	StatusCode int
	Message    string
	Redirect   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gallery server returned %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("gallery server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
