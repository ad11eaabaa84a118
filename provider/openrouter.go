package provider

import (
	"fmt"

	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// NewOpenRouterProvider creates a provider for OpenRouter, which is
// OpenAI-compatible and reached through the same SDK.
//
// Parameters:
//   - baseURL: OpenRouter API base URL ("https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key
//   - model: Model to use, in vendor/name form
func NewOpenRouterProvider(baseURL, apiKey, model string, logger *zap.Logger) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if model == "" {
		model = "meta-llama/llama-3.2-90b-vision-instruct" // Default vision model
	}

	return newOpenAICompatible("openrouter", baseURL, model, logger,
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		// App attribution headers OpenRouter shows in its dashboard
		option.WithHeader("X-Title", "tempchat"),
	), nil
}
