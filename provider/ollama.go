package provider

import (
	"context"
	"errors"
	"fmt"

	"tempchat/model"
	"tempchat/ollama"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
type OllamaProvider struct {
	client *ollama.Client
	logger *zap.Logger
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. Defaults to "http://localhost:11434".
//   - model: The model name to use. Defaults to a vision-capable model so
//     image turns work out of the box.
func NewOllamaProvider(baseURL, model string, logger *zap.Logger) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OllamaProvider{
		client: client,
		logger: logger,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama/" + p.client.GetModel()
}

// Send implements model.Provider with one non-streaming chat request.
func (p *OllamaProvider) Send(ctx context.Context, prompt model.Prompt) (string, error) {
	var images [][]byte
	if prompt.Image != nil {
		images = append(images, prompt.Image.Data)
	}

	p.logger.Debug("sending ollama chat",
		zap.String("model", p.client.GetModel()),
		zap.Int("images", len(images)),
	)

	reply, err := p.client.Ask(ctx, prompt.Text, images...)
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", &StatusError{Code: statusErr.StatusCode, Body: statusErr.ErrorMessage}
		}
		return "", fmt.Errorf("Ollama chat failed: %w", err)
	}
	return reply, nil
}

// Ping checks that the Ollama server is reachable.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}
