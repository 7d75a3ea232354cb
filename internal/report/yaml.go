package report

import (
	"fmt"
	"os"
	"time"

	"github.com/wildlife-tools/animaldetect/internal/models"
	"gopkg.in/yaml.v3"
)

// Source describes where a report came from
type Source struct {
	Server      string `yaml:"server"`
	GeneratedAt string `yaml:"generated_at"`
}

// Document is the YAML report layout
type Document struct {
	Source  Source  `yaml:"source"`
	Summary Summary `yaml:"summary"`
	Results []Row   `yaml:"results"`
}

// NewDocument builds a report for records fetched from server
func NewDocument(server string, records []*models.ResultRecord, now time.Time) Document {
	return Document{
		Source: Source{
			Server:      server,
			GeneratedAt: now.UTC().Format(time.RFC3339),
		},
		Summary: Summarize(records),
		Results: Rows(records),
	}
}

// SaveYAML writes the document to path
func SaveYAML(path string, doc Document) error {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
