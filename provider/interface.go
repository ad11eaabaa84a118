// Package provider implements the backends a chat turn can be sent to.
//
// Every backend satisfies model.Provider: one request per turn, carrying the
// turn's text and optional image, answered with a single reply string. No
// conversation history is sent, and no backend streams.
//
// # Backends
//
//   - connect: multipart/form-data POST to a chat endpoint that answers
//     {"response": "..."} (the default)
//   - ollama: local Ollama server via github.com/ollama/ollama/api
//   - openai, openrouter: OpenAI-compatible chat completions via openai-go
//   - anthropic: Claude Messages API via anthropic-sdk-go
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeConnect,
//	    BaseURL: "http://localhost:8080/api/connect-ai/message",
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Send(ctx, model.Prompt{Text: "Hello"})
package provider

import (
	"fmt"

	"go.uber.org/zap"
)

// Note: model.Provider lives in the model package so the orchestrator can
// depend on it without importing this package.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeConnect    ProviderType = "connect"
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string // Endpoint URL for connect, API base URL for the others
	Model   string // Ignored by connect
	APIKey  string // For OpenAI/OpenRouter/Anthropic
	Logger  *zap.Logger
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// StatusError is returned when a backend answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}
