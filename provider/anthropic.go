package provider

import (
	"context"
	"fmt"

	"tempchat/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// AnthropicProvider implements model.Provider using Anthropic's official API.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	logger    *zap.Logger
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Model to use (default: "claude-sonnet-4-5-20250929")
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, model string, logger *zap.Logger) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:    &client, // Convert value to pointer
		model:     anthropicModel,
		maxTokens: 4096,
		logger:    logger,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic/" + string(p.model)
}

func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

// Send implements model.Provider with a single Messages.New call.
func (p *AnthropicProvider) Send(ctx context.Context, prompt model.Prompt) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  ConvertToAnthropicMessages(prompt),
		MaxTokens: p.maxTokens, // Required by Anthropic API
	}

	p.logger.Debug("sending anthropic message",
		zap.String("model", string(p.model)),
		zap.Bool("image", prompt.Image != nil),
	)

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Anthropic request failed: %w", statusFromSDKError(err))
	}

	return extractAnthropicText(msg.Content), nil
}
