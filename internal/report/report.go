package report

import (
	"sort"
	"time"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

// Row is one detection flattened for tabular export. Results without any
// detection still produce a single row with an empty class.
type Row struct {
	ResultID   string    `parquet:"result_id" yaml:"result_id"`
	Type       string    `parquet:"type" yaml:"type"`
	Filename   string    `parquet:"filename" yaml:"filename"`
	MediaURL   string    `parquet:"media_url" yaml:"media_url"`
	Provider   string    `parquet:"provider,optional" yaml:"provider,omitempty"`
	Model      string    `parquet:"model,optional" yaml:"model,omitempty"`
	CreatedAt  time.Time `parquet:"created_at" yaml:"created_at"`
	Class      string    `parquet:"class,optional" yaml:"class,omitempty"`
	Category   string    `parquet:"category,optional" yaml:"category,omitempty"`
	Confidence float64   `parquet:"confidence" yaml:"confidence"`
	X1         int32     `parquet:"x1" yaml:"x1"`
	Y1         int32     `parquet:"y1" yaml:"y1"`
	X2         int32     `parquet:"x2" yaml:"x2"`
	Y2         int32     `parquet:"y2" yaml:"y2"`
	Alert      string    `parquet:"alert,optional" yaml:"alert,omitempty"`
}

// Rows flattens records into export rows
func Rows(records []*models.ResultRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		base := Row{
			ResultID:  record.ID,
			Type:      string(record.Type),
			Filename:  record.Filename,
			MediaURL:  record.MediaURL,
			Provider:  record.Provider,
			Model:     record.Model,
			CreatedAt: record.CreatedAt.UTC(),
		}
		if len(record.Detections) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, det := range record.Detections {
			row := base
			row.Class = className(det)
			row.Category = det.Category
			row.Confidence = det.Confidence
			row.Alert = det.Alert
			if len(det.BBox) == 4 {
				row.X1, row.Y1, row.X2, row.Y2 = int32(det.BBox[0]), int32(det.BBox[1]), int32(det.BBox[2]), int32(det.BBox[3])
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func className(det models.Detection) string {
	if det.Class != nil && det.Class.Name != "" {
		return det.Class.Name
	}
	return det.DisplayName
}

// Summary aggregates a set of detection results
type Summary struct {
	TotalResults      int            `yaml:"total_results"`
	TotalDetections   int            `yaml:"total_detections"`
	EmptyResults      int            `yaml:"empty_results"`
	AverageConfidence float64        `yaml:"average_confidence"`
	ByCategory        map[string]int `yaml:"by_category"`
	ByClass           map[string]int `yaml:"by_class"`
	Alerts            []string       `yaml:"alerts,omitempty"`
}

// Summarize counts detections per category and class
func Summarize(records []*models.ResultRecord) Summary {
	s := Summary{
		TotalResults: len(records),
		ByCategory:   make(map[string]int),
		ByClass:      make(map[string]int),
	}

	seenAlerts := make(map[string]bool)
	total := 0.0
	for _, record := range records {
		if len(record.Detections) == 0 {
			s.EmptyResults++
			continue
		}
		for _, det := range record.Detections {
			s.TotalDetections++
			total += det.Confidence
			if det.Category != "" {
				s.ByCategory[det.Category]++
			}
			if name := className(det); name != "" {
				s.ByClass[name]++
			}
			if det.Alert != "" && !seenAlerts[det.Alert] {
				seenAlerts[det.Alert] = true
				s.Alerts = append(s.Alerts, det.Alert)
			}
		}
	}

	if s.TotalDetections > 0 {
		s.AverageConfidence = total / float64(s.TotalDetections)
	}
	sort.Strings(s.Alerts)
	return s
}

// TopClasses returns class names ordered by detection count, then name
func (s Summary) TopClasses() []string {
	names := make([]string, 0, len(s.ByClass))
	for name := range s.ByClass {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.ByClass[names[i]] == s.ByClass[names[j]] {
			return names[i] < names[j]
		}
		return s.ByClass[names[i]] > s.ByClass[names[j]]
	})
	return names
}
