package openai

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
const DefaultModel = "gpt-4o"

// OpenAI is a provider for OpenAI vision models
type OpenAI struct {
	client *resty.Client
	url    string
}

// New returns a new OpenAI provider
func New() *OpenAI {
	return &OpenAI{
		client: resty.New(),
		url:    "https://api.openai.com/v1/chat/completions",
	}
}

func (o *OpenAI) Info() models.ProviderInfo {
	return models.ProviderInfo{
		ID:          "openai",
		Name:        "OpenAI",
		Description: "GPT vision model prompted for animal bounding boxes (images only)",
	}
}

// Detect asks OpenAI for the animals in an image
func (o *OpenAI) Detect(ctx context.Context, media providers.Media, config providers.Config) ([]providers.Box, error) {
	if media.Kind != models.MediaImage {
		return nil, providers.ErrUnsupportedMedia
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	dataURL := "data:" + media.MIME + ";base64," + base64.StdEncoding.EncodeToString(media.Data)

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(map[string]interface{}{
			"model": model,
			"messages": []map[string]interface{}{
				{
					"role": "user",
					"content": []map[string]interface{}{
						{"type": "text", "text": providers.BuildDetectionPrompt(config)},
						{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
					},
				},
			},
			"response_format": map[string]string{"type": "json_object"},
			"temperature":     0.1,
		}).
		SetResult(&response).
		Post(o.url)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode(), resp.String())
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from OpenAI")
	}

	return providers.ParseBoxes(response.Choices[0].Message.Content)
}
