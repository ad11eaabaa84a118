package provider

import (
	"context"
	"fmt"

	"tempchat/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// OpenAIProvider implements model.Provider using OpenAI's official API.
// OpenRouter reuses it with a different base URL.
type OpenAIProvider struct {
	client  openai.Client
	name    string
	model   string
	baseURL string
	logger  *zap.Logger
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: Model to use (default: "gpt-4o-mini", which accepts images)
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, model string, logger *zap.Logger) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini" // Default to affordable model
	}

	return newOpenAICompatible("openai", baseURL, model, logger,
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	), nil
}

func newOpenAICompatible(name, baseURL, model string, logger *zap.Logger, opts ...option.RequestOption) *OpenAIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   model,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name + "/" + p.model
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// Send implements model.Provider with a single non-streaming chat completion.
func (p *OpenAIProvider) Send(ctx context.Context, prompt model.Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(prompt),
		Model:    openai.ChatModel(p.model),
	}

	p.logger.Debug("sending chat completion",
		zap.String("provider", p.name),
		zap.String("model", p.model),
		zap.Bool("image", prompt.Image != nil),
	)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s chat completion failed: %w", p.name, statusFromSDKError(err))
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
