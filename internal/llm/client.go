package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"donna/internal/model"
)

// Completer is the generative capability boundary. Any failure is reported
// uniformly as an error; callers decide the user-facing fallback.
type Completer interface {
	Complete(ctx context.Context, messages []*schema.Message, temperature float32) (string, error)
}

const defaultTimeout = 60 * time.Second

// Client wraps an eino OpenAI-compatible chat model. It is constructed once
// at startup and injected everywhere a completion is needed.
type Client struct {
	model   *openai.ChatModel
	timeout time.Duration
}

// NewClient builds the chat model from credentials and model selection.
func NewClient(ctx context.Context, llmConfig model.LLMConfig, modelConfig model.ModelConfig) (*Client, error) {
	maxTokens := modelConfig.MaxTokens
	temperature := modelConfig.Temperature

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      llmConfig.APIKey,
		BaseURL:     llmConfig.BaseURL,
		Model:       modelConfig.Name,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	return &Client{
		model:   chatModel,
		timeout: defaultTimeout,
	}, nil
}

// Complete sends the messages and returns the trimmed reply text.
func (c *Client) Complete(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.model.Generate(ctx, messages, einomodel.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return strings.TrimSpace(out.Content), nil
}
