package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/providers"
)

// DefaultModel is used when no model is configured
const DefaultModel = "llava:13b"

// Ollama is a provider for Ollama vision models
type Ollama struct {
	client *resty.Client
}

// New returns a new Ollama provider
func New() *Ollama {
	return &Ollama{client: resty.New()}
}

func (o *Ollama) Info() models.ProviderInfo {
	return models.ProviderInfo{
		ID:          "ollama",
		Name:        "Ollama",
		Description: "Local vision model prompted for animal bounding boxes (images only)",
	}
}

// Detect asks a local Ollama vision model for the animals in an image
func (o *Ollama) Detect(ctx context.Context, media providers.Media, config providers.Config) ([]providers.Box, error) {
	if media.Kind != models.MediaImage {
		return nil, providers.ErrUnsupportedMedia
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	var response struct {
		Response string `json:"response"`
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model":  model,
			"prompt": providers.BuildDetectionPrompt(config),
			"images": []string{base64.StdEncoding.EncodeToString(media.Data)},
			"format": "json",
			"stream": false,
			"options": map[string]interface{}{
				"temperature": 0.1,
			},
		}).
		SetResult(&response).
		Post(ollamaURL + "/api/generate")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode(), resp.String())
	}

	return providers.ParseBoxes(response.Response)
}
