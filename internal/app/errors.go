package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoSummarizer = errors.New("service has no summarizer")
	ErrAborted      = errors.New("upload aborted")
)
