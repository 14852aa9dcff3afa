package models

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned by a ChatProvider whose reply carried no content.
var ErrEmptyResponse = errors.New("ai provider returned empty response")

// ProviderError is a failed call to a remote provider. StatusCode is the
// HTTP status the provider answered with, or 0 for transport failures.
// Message holds only what the provider itself reported.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

func (e *ProviderError) Unwrap() error { return e.Err }
