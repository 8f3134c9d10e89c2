package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Base URLs for the OpenAI-compatible providers the service supports.
const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	DeepInfraBaseURL = "https://api.deepinfra.com/v1/openai"
)

// OpenAICompat talks to any chat-completions-compatible endpoint: OpenAI
// itself, Groq, or DeepInfra depending on the configured base URL.
type OpenAICompat struct {
	Name   string
	Model  string
	client *openai.Client
}

func NewOpenAICompat(name, apiKey, baseURL, model string, timeout time.Duration) *OpenAICompat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAICompat{
		Name:   name,
		Model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (p *OpenAICompat) Generate(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: p.Name, Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
