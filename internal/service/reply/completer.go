package reply

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"

	"github.com/zhouzirui/reply-studio/backend/internal/config"
)

// ErrEmptyCompletion is returned when the service answers without any text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Request is one prompt submitted to the text-generation service.
type Request struct {
	Prompt      string
	Model       string
	Temperature float32
}

// Completer turns a prompt into a single completion text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ChatModelCompleter sends prompts through an eino chat model.
type ChatModelCompleter struct {
	chatModel model.BaseChatModel
}

// NewChatModelCompleter wraps chatModel, for example an Ark model built from config.
func NewChatModelCompleter(chatModel model.BaseChatModel) *ChatModelCompleter {
	return &ChatModelCompleter{chatModel: chatModel}
}

// Complete sends the prompt as a single user message.
func (c *ChatModelCompleter) Complete(ctx context.Context, req Request) (string, error) {
	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}

	msg, err := c.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(req.Prompt)}, opts...)
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	if msg == nil {
		return "", ErrEmptyCompletion
	}
	return msg.Content, nil
}

// OpenAICompleter sends prompts to the OpenAI chat completions API.
type OpenAICompleter struct {
	client *openai.Client
}

// NewOpenAICompleter creates a completer for apiKey. baseURL may be empty.
func NewOpenAICompleter(apiKey, baseURL string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg)}, nil
}

// Complete sends the prompt as a single user message.
func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// NewCompleter builds the completer for the configured provider.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewChatModelCompleter(chatModel), nil
	default:
		completer, err := NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return completer, nil
	}
}
