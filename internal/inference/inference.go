package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/providers"
)

// VideoFrameStride is the sampling interval the model server applies to video
const VideoFrameStride = 5

// Inference is a provider backed by a remote object detection model server.
// The server receives the media as multipart/form-data and answers with
// {"boxes": [...]} or {"error": "..."}.
type Inference struct {
	url    string
	client *resty.Client
}

// New returns a provider for the model server at url
func New(url string, timeout time.Duration) *Inference {
	return &Inference{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

func (i *Inference) Info() models.ProviderInfo {
	return models.ProviderInfo{
		ID:          "inference",
		Name:        "YOLO model server",
		Description: "Object detection model served over HTTP; samples every 5th video frame",
		Video:       true,
	}
}

// Detect sends media to the model server
func (i *Inference) Detect(ctx context.Context, media providers.Media, config providers.Config) ([]providers.Box, error) {
	classes := make([]string, 0, len(config.ClassIDs))
	for _, id := range config.ClassIDs {
		classes = append(classes, strconv.Itoa(id))
	}

	form := map[string]string{
		"type":    string(media.Kind),
		"conf":    strconv.FormatFloat(config.ConfThreshold, 'f', -1, 64),
		"iou":     strconv.FormatFloat(config.IOUThreshold, 'f', -1, 64),
		"classes": strings.Join(classes, ","),
	}
	if config.Model != "" {
		form["model"] = config.Model
	}
	if media.Kind == models.MediaVideo {
		form["frame_stride"] = strconv.Itoa(VideoFrameStride)
	}

	resp, err := i.client.R().
		SetContext(ctx).
		SetMultipartField("file", media.Filename, media.MIME, bytes.NewReader(media.Data)).
		SetFormData(form).
		Post(i.url)
	if err != nil {
		return nil, fmt.Errorf("failed to call model server: %w", err)
	}

	var result struct {
		Boxes []providers.Box `json:"boxes"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode(), resp.String())
		}
		return nil, fmt.Errorf("failed to decode model server response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("model server error: %s", result.Error)
	}

	return result.Boxes, nil
}
