package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/okian/perfsum/internal/domain/summary"
)

// OpenAIName is the provider name reported in logs and metrics.
const OpenAIName = "openai"

// OpenAI generates summaries through any OpenAI-compatible chat endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI chat client for model.
func NewOpenAI(apiKey, model string, opts ...Option) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", OpenAIName, ErrMissingAPIKey)
	}
	if model == "" {
		return nil, fmt.Errorf("%s: %w", OpenAIName, ErrMissingModel)
	}
	o := buildOptions(opts)

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (c *OpenAI) Name() string { return OpenAIName }

// Model returns the configured model name.
func (c *OpenAI) Model() string { return c.model }

// Generate sends prompt as a single user message.
func (c *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", summary.NewProviderError(OpenAIName, err)
	}
	if len(resp.Choices) == 0 {
		return "", summary.NewProviderError(OpenAIName, summary.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
