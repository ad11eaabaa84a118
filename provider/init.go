package provider

import (
	"tempchat/config"
	"tempchat/model"

	"go.uber.org/zap"
)

// InitializeProvider creates the backend selected by the application config.
//
// For the connect backend the configured endpoint is the full URL the turn is
// posted to. For SDK backends an empty endpoint means the vendor default, so the
// connect default endpoint is not passed through to them.
func InitializeProvider(cfg *config.Config, logger *zap.Logger) (model.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	providerType := MapProviderIDToType(cfg.Provider)

	baseURL := cfg.Endpoint
	if providerType != ProviderTypeConnect && baseURL == config.DefaultEndpoint {
		baseURL = ""
	}

	p, err := NewProvider(Config{
		Type:    providerType,
		BaseURL: baseURL,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Logger:  logger.Named("provider"),
	})
	if err != nil {
		logger.Warn("failed to initialize provider",
			zap.String("provider", cfg.Provider),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Debug("initialized provider",
		zap.String("provider", p.Name()),
		zap.String("type", string(providerType)),
	)
	return p, nil
}
