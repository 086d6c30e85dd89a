package marketplace

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse is a successful response without the entity it should carry.
var ErrEmptyResponse = errors.New("marketplace api: response carries no data")

// StatusError is a non-2xx API response.
// Message is the server-provided message, empty when the body carried none.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("marketplace api: status %d", e.Code)
	}
	return fmt.Sprintf("marketplace api: status %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// MessageOf returns the server-provided message carried by err, if any.
func MessageOf(err error) (string, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message, true
	}
	return "", false
}
