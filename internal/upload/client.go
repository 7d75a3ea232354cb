package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wildlife-tools/animaldetect/internal/models"
)

// DetectPath is the detection endpoint relative to the server base URL
const DetectPath = "/detect"

// Client posts uploads to a detection server
type Client struct {
	BaseURL string
	http    *resty.Client
}

// NewClient creates a client for the server at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    resty.New().SetTimeout(timeout),
	}
}

// Detect sends the task as multipart/form-data with fields "file" and "type"
// and decodes the JSON body. Error statuses are decoded too, since the server
// reports failures as {"error": "..."}.
func (c *Client) Detect(ctx context.Context, task Task) (*models.DetectionResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", task.File.Name, task.File.Type, bytes.NewReader(task.File.Data)).
		SetFormData(map[string]string{"type": string(task.Kind)}).
		SetHeader("Accept", "application/json").
		Post(c.BaseURL + DetectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to send detection request: %w", err)
	}

	var result models.DetectionResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		if resp.IsError() {
			return nil, fmt.Errorf("detection server returned status %d", resp.StatusCode())
		}
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}

	return &result, nil
}

// ResolveURL makes a server-relative media URL absolute
func (c *Client) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// ResultsPath lists the server's detection history
const ResultsPath = "/api/results"

// Results fetches every stored detection result, oldest first
func (c *Client) Results(ctx context.Context) ([]*models.ResultRecord, error) {
	var records []*models.ResultRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&records).
		Get(c.BaseURL + ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("results request returned status %d", resp.StatusCode())
	}
	return records, nil
}
