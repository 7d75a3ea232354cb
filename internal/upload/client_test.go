package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientDetect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/detect" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			return
		}
		if r.FormValue("type") != "image" {
			t.Errorf("Expected type=image, got %q", r.FormValue("type"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("Expected file part: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "fox.png" || string(data) != "\x89PNG" {
			t.Errorf("Unexpected file part %q %q", header.Filename, data)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected part content type image/png, got %q", ct)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type": "image",
			"detections": []map[string]any{
				{"class": map[string]any{"name": "fox", "category": "carnivores"}, "confidence": 0.9},
			},
			"image_url": "/static/results/detected_fox.png",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 5*time.Second)
	result, err := client.Detect(context.Background(), Task{File: pngFile(), Kind: KindImage})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Detections) != 1 || result.Detections[0].Class.Name != "fox" {
		t.Errorf("Unexpected detections: %+v", result.Detections)
	}
	if result.ImageURL != "/static/results/detected_fox.png" {
		t.Errorf("Unexpected image URL: %s", result.ImageURL)
	}
}

func TestClientDetectErrorBodies(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     string
		serverError string
	}{
		{"json error with status", http.StatusBadRequest, `{"error": "File type not allowed"}`, "", "File type not allowed"},
		{"non json error status", http.StatusBadGateway, `<html>bad gateway</html>`, "status 502", ""},
		{"non json ok status", http.StatusOK, `not json`, "failed to decode", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result, err := NewClient(server.URL, time.Second).Detect(context.Background(), Task{File: pngFile(), Kind: KindImage})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Error != tt.serverError {
				t.Errorf("Expected server error %q, got %q", tt.serverError, result.Error)
			}
		})
	}
}

func TestClientResolveURL(t *testing.T) {
	client := NewClient("http://localhost:5000/", 0)

	tests := map[string]string{
		"/static/results/a.png":     "http://localhost:5000/static/results/a.png",
		"uploads/a.png":             "http://localhost:5000/uploads/a.png",
		"https://cdn.example/a.png": "https://cdn.example/a.png",
	}
	for in, want := range tests {
		if got := client.ResolveURL(in); got != want {
			t.Errorf("ResolveURL(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestClientResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/results" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a","type":"image","filename":"fox.png","detections":[],"media_url":"/uploads/fox.png","created_at":"2024-05-01T12:00:00Z"}]`))
	}))
	defer server.Close()

	records, err := NewClient(server.URL, time.Second).Results(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" || records[0].MediaURL != "/uploads/fox.png" {
		t.Errorf("Unexpected records: %+v", records)
	}
}

func TestClientResultsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL, time.Second).Results(context.Background()); err == nil {
		t.Error("Expected error for status 500")
	}
}
