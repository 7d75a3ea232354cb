package upload

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile         = errors.New("no file selected")
	ErrWrongMediaType = errors.New("file does not match the selected media type")
	// ErrSuperseded is returned for a request whose response was discarded
	// because a newer submission or an abort replaced it.
	ErrSuperseded = errors.New("request superseded")
)

// ServerError is an error reported by the detection server in the response body
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ValidationError rejects a submission before any request is made
type ValidationError struct {
	Kind Kind
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s submission: %v", e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
