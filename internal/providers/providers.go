package providers

import (
	"context"
	"errors"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

// ErrUnsupportedMedia is returned by providers that cannot process a media kind
var ErrUnsupportedMedia = errors.New("media kind not supported by provider")

// Config represents the configuration for a detection provider
type Config struct {
	Model         string
	ConfThreshold float64
	IOUThreshold  float64
	// ClassIDs restricts detection to these model classes when non-empty.
	ClassIDs []int
	// ClassNames lists the animals a provider without class ids may report.
	ClassNames []string
}

// Media is an uploaded image or video
type Media struct {
	Kind     models.MediaKind
	Filename string
	MIME     string
	Data     []byte
}

// Box is a raw model detection. When ClassName is set it takes precedence
// over ClassID.
type Box struct {
	ClassID    int     `json:"class_id"`
	ClassName  string  `json:"class_name,omitempty"`
	Confidence float64 `json:"confidence"`
	BBox       [4]int  `json:"bbox"`
	Frame      int     `json:"frame,omitempty"`
}

// Provider defines the interface for a detection backend
type Provider interface {
	Detect(ctx context.Context, media Media, config Config) ([]Box, error)
	Info() models.ProviderInfo
}
