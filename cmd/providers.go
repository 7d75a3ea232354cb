package cmd

import (
	"fmt"
	"time"

	"github.com/wildlife-tools/animaldetect/internal/config"
	"github.com/wildlife-tools/animaldetect/internal/gemini"
	"github.com/wildlife-tools/animaldetect/internal/inference"
	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/ollama"
	"github.com/wildlife-tools/animaldetect/internal/openai"
	"github.com/wildlife-tools/animaldetect/internal/providers"
)

const inferenceTimeout = 2 * time.Minute

// newProvider builds the detection backend named by cfg.Provider
func newProvider(cfg *config.Config) (providers.Provider, error) {
	switch cfg.Provider {
	case "inference":
		return inference.New(cfg.InferenceURL, inferenceTimeout), nil
	case "gemini":
		return gemini.New(), nil
	case "ollama":
		return ollama.New(), nil
	case "openai":
		return openai.New(), nil
	default:
		return nil, fmt.Errorf("unknown detection provider %q (expected inference, gemini, ollama or openai)", cfg.Provider)
	}
}

// availableProviders describes every backend the server can be started with
func availableProviders(cfg *config.Config) []models.ProviderInfo {
	return []models.ProviderInfo{
		inference.New(cfg.InferenceURL, inferenceTimeout).Info(),
		gemini.New().Info(),
		ollama.New().Info(),
		openai.New().Info(),
	}
}
