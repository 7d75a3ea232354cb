package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/providers"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-1.5-flash"

// Gemini is a provider for Google Gemini
type Gemini struct{}

// New returns a new Gemini provider
func New() *Gemini {
	return &Gemini{}
}

func (g *Gemini) Info() models.ProviderInfo {
	return models.ProviderInfo{
		ID:          "gemini",
		Name:        "Google Gemini",
		Description: "Vision LLM prompted for animal bounding boxes (images only)",
	}
}

// Detect asks Gemini for the animals in an image
func (g *Gemini) Detect(ctx context.Context, media providers.Media, config providers.Config) ([]providers.Box, error) {
	if media.Kind != models.MediaImage {
		return nil, providers.ErrUnsupportedMedia
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	modelName := config.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(media.MIME), media.Data),
		genai.Text(providers.BuildDetectionPrompt(config)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from Gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	return providers.ParseBoxes(string(txt))
}

// imageFormat maps "image/png" to "png"; genai.ImageData wants the subtype only
func imageFormat(mime string) string {
	format := strings.TrimPrefix(mime, "image/")
	if format == "" || format == mime {
		return "jpeg"
	}
	return format
}
