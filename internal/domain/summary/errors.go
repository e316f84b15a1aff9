package summary

import (
	"errors"
	"fmt"
)

// Sentinel kinds for summary generation errors.
var (
	ErrProvider      = errors.New("summary provider failed")
	ErrEmptyResponse = errors.New("provider returned no text")
)

// ProviderError is the typed failure returned by Provider implementations.
type ProviderError struct {
	Provider string
	Err      error
}

// NewProviderError wraps err with the provider name.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, ErrProvider.Error())
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

// Unwrap exposes both the provider sentinel and the cause to errors.Is.
func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProvider}
	}
	return []error{ErrProvider, e.Err}
}
