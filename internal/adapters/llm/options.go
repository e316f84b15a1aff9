// Package llm implements summary.Provider on top of hosted language models.
package llm

import "net/http"

type options struct {
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to a provider client.
type Option func(*options)

// WithBaseURL points the client at a different API endpoint, such as a
// self-hosted OpenAI-compatible server or a test double.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = url
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
