package detection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/providers"
)

// Service runs a provider and turns its raw boxes into animal detections
type Service struct {
	provider providers.Provider
	catalog  *Catalog
	config   providers.Config
}

// NewService creates a detection service
func NewService(provider providers.Provider, catalog *Catalog, config providers.Config) *Service {
	config.ClassIDs = catalog.ClassIDs()
	config.ClassNames = make([]string, 0, len(config.ClassIDs))
	for _, id := range config.ClassIDs {
		a, _ := catalog.Lookup(id)
		config.ClassNames = append(config.ClassNames, a.Name)
	}
	return &Service{
		provider: provider,
		catalog:  catalog,
		config:   config,
	}
}

// Provider returns the backend description
func (s *Service) Provider() models.ProviderInfo {
	return s.provider.Info()
}

// Model returns the configured model name
func (s *Service) Model() string {
	return s.config.Model
}

// Detect runs detection on media. Boxes for unknown classes or below the
// animal's confidence threshold are dropped.
func (s *Service) Detect(ctx context.Context, media providers.Media) ([]models.Detection, error) {
	if media.Kind == models.MediaVideo && !s.provider.Info().Video {
		return nil, fmt.Errorf("%s: %w", s.provider.Info().ID, providers.ErrUnsupportedMedia)
	}

	boxes, err := s.provider.Detect(ctx, media, s.config)
	if err != nil {
		return nil, fmt.Errorf("provider %s failed: %w", s.provider.Info().ID, err)
	}

	detections := make([]models.Detection, 0, len(boxes))
	for _, box := range boxes {
		animal, ok := s.resolve(box)
		if !ok {
			slog.Debug("Skipping unknown class", "class_id", box.ClassID, "class_name", box.ClassName)
			continue
		}
		if box.Confidence < s.catalog.Threshold(animal.Name) {
			continue
		}
		detections = append(detections, s.toDetection(animal, box))
	}

	slog.Info("Detection complete", "file", media.Filename, "kind", media.Kind, "boxes", len(boxes), "detections", len(detections))
	return detections, nil
}

func (s *Service) resolve(box providers.Box) (Animal, bool) {
	if box.ClassName != "" {
		id, ok := s.catalog.LookupName(box.ClassName)
		if !ok {
			return Animal{}, false
		}
		return s.catalog.Lookup(id)
	}
	return s.catalog.Lookup(box.ClassID)
}

func (s *Service) toDetection(animal Animal, box providers.Box) models.Detection {
	return models.Detection{
		Class:       &models.ClassRef{Name: animal.Name, Category: animal.Category, Object: true},
		DisplayName: DisplayName(animal.Name),
		Category:    animal.Category,
		Confidence:  box.Confidence,
		BBox:        box.BBox[:],
		Alert:       AlertMessage(animal),
	}
}
