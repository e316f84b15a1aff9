package ingest

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a required cell that is empty.
type Policy int

const (
	// PolicyLenient substitutes a placeholder and keeps the row.
	PolicyLenient Policy = iota
	// PolicyStrict rejects the upload.
	PolicyStrict
)

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "lenient"
}

// ParsePolicy maps a configuration value to a Policy. Empty means lenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Option applies a configuration option to a Reader.
type Option func(*Reader)

// WithPolicy sets the missing-value policy for required cells.
func WithPolicy(p Policy) Option {
	return func(r *Reader) {
		r.policy = p
	}
}

// WithMaxRows caps the number of data rows. Zero or negative means unlimited.
func WithMaxRows(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxRows = n
		}
	}
}

// WithDefaultHook registers a callback invoked for every cell replaced by a default.
func WithDefaultHook(fn func(column string)) Option {
	return func(r *Reader) {
		r.onDefault = fn
	}
}
