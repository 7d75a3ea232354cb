package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MediaKind is the kind of media submitted for detection
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// ClassRef is a detection class. The server may send it either as a bare
// string ("fox") or as an object ({"name": "fox", "category": "carnivores"}).
type ClassRef struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	// Object reports whether the class arrived in object form.
	Object bool `json:"-"`
}

func (c *ClassRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ClassRef{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = ClassRef{Name: name}
		return nil
	}

	var obj struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("class must be a string or an object: %w", err)
	}
	*c = ClassRef{Name: obj.Name, Category: obj.Category, Object: true}
	return nil
}

func (c ClassRef) MarshalJSON() ([]byte, error) {
	if !c.Object {
		return json.Marshal(c.Name)
	}
	return json.Marshal(struct {
		Name     string `json:"name"`
		Category string `json:"category,omitempty"`
	}{c.Name, c.Category})
}

// Detection is one identified animal in the submitted media
type Detection struct {
	Class       *ClassRef `json:"class,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Category    string    `json:"category,omitempty"`
	Confidence  float64   `json:"confidence"`
	BBox        []int     `json:"bbox,omitempty"` // x1, y1, x2, y2
	Alert       string    `json:"alert,omitempty"`
}

// DetectionResult is the body returned by POST /detect
type DetectionResult struct {
	ID         string      `json:"id,omitempty"`
	Type       MediaKind   `json:"type,omitempty"`
	Detections []Detection `json:"detections"`
	ImageURL   string      `json:"image_url,omitempty"`
	VideoURL   string      `json:"video_url,omitempty"`
	Timestamp  string      `json:"timestamp,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// ResultRecord is a completed detection run kept in the result history
type ResultRecord struct {
	ID         string      `json:"id"`
	Type       MediaKind   `json:"type"`
	Filename   string      `json:"filename"`
	Detections []Detection `json:"detections"`
	MediaURL   string      `json:"media_url"`
	Provider   string      `json:"provider,omitempty"`
	Model      string      `json:"model,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ProviderInfo describes a detection backend the server can use
type ProviderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Video       bool   `json:"video"`
}
