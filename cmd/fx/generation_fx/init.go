package generation_fx

import (
	"fmt"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"healthybychoice/internal/config"
	"healthybychoice/internal/services"
	"healthybychoice/pkg/i18n"
	"healthybychoice/pkg/llm"
)

var Module = fx.Provide(
	ProvideGenerationClient,
	ProvideCommentaryService)

// GenerationConfig holds configuration for the text generation client
type GenerationConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideGenerationClient creates a generation client for the configured provider
func ProvideGenerationClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	gc := getGenerationConfig(cfg)

	logger.Info("Initializing generation client",
		zap.String("provider", gc.Provider),
		zap.String("model", gc.Model))

	client, err := llm.NewClient(gc.Provider, gc.APIKey, gc.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", gc.Provider, err)
	}
	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.StopHook(closer.Close))
	}
	return client, nil
}

// ProvideCommentaryService creates the commentary service with its fallbacks
func ProvideCommentaryService(
	client llm.Client,
	tr *i18n.Translator,
	cfg *config.Config,
	logger *zap.Logger,
) (services.CommentaryServiceInterface, error) {
	return services.NewCommentaryService(client, tr, cfg.AITimeout, logger)
}

func getGenerationConfig(cfg *config.Config) GenerationConfig {
	switch cfg.GenerationProvider {
	case "openai":
		return GenerationConfig{Provider: "openai", APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel}
	case "gemini":
		return GenerationConfig{Provider: "gemini", APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
	default:
		return GenerationConfig{Provider: "static"}
	}
}
