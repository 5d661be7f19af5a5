// Package app wires configuration into the inference engine shared by the
// HTTP server and the Telegram bot.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"reuse-api/api/internal/config"
	"reuse-api/api/internal/pipeline"
	"reuse-api/api/internal/vision"
	"reuse-api/api/internal/vision/gemini"
	"reuse-api/api/internal/vision/openai"
)

// NewPipeline builds the engine selected by cfg.LLMProvider. The returned
// close func releases the engine's client and is never nil.
func NewPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Service, func(), error) {
	var engines vision.Engines
	closeFn := func() {}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		e, err := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, closeFn, err
		}
		engines.OpenAI = e
	default:
		e, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, closeFn, err
		}
		engines.Gemini = e
		closeFn = func() {
			if err := e.Close(); err != nil {
				log.Warn().Err(err).Msg("gemini client close")
			}
		}
	}

	engine, err := engines.Get(cfg.LLMProvider)
	if err != nil {
		closeFn()
		return nil, func() {}, fmt.Errorf("engine: %w", err)
	}
	log.Info().Str("engine", engine.Name()).Str("model", engine.GetModel()).Msg("inference engine ready")
	return pipeline.New(engine), closeFn, nil
}
