package interpreter

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient implements ModelClient against the OpenAI chat
// completions API (or any compatible endpoint via baseURL).
type OpenAIClient struct {
	api openai.Client
}

// NewOpenAIClient builds a client. baseURL may be empty for the default
// OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{api: openai.NewClient(opts...)}
}

// Complete implements ModelClient.
func (c *OpenAIClient) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
