package llm

import "errors"

// Sentinel kinds for provider construction errors.
var (
	ErrUnknownProvider = errors.New("unknown summary provider")
	ErrMissingAPIKey   = errors.New("missing api key")
	ErrMissingModel    = errors.New("missing model name")
)
