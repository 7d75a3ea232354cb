package console

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/upload"
)

// FileForm is an upload form backed by a path on disk
type FileForm struct {
	Path    string
	handler func(ctx context.Context)
}

func NewFileForm(path string) *FileForm {
	return &FileForm{Path: path}
}

func (f *FileForm) OnSubmit(handler func(ctx context.Context)) {
	f.handler = handler
}

// Submit fires the bound handler, as pressing the form's submit button would
func (f *FileForm) Submit(ctx context.Context) {
	if f.handler != nil {
		f.handler(ctx)
	}
}

// SelectedFile reads the file. An empty or unreadable path counts as no selection.
func (f *FileForm) SelectedFile() *upload.File {
	if f.Path == "" {
		return nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		slog.Warn("Unable to read file", "path", f.Path, "err", err)
		return nil
	}
	return &upload.File{
		Name: filepath.Base(f.Path),
		Type: fileType(f.Path),
		Data: data,
	}
}

func fileType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); t != "" {
		// drop parameters such as "; charset=utf-8"
		t, _, _ = strings.Cut(t, ";")
		return t
	}
	switch ext {
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".mp4":
		return "video/mp4"
	}
	return "application/octet-stream"
}

// Recorder wraps a detector and keeps every successful result
type Recorder struct {
	upload.Detector

	mu      sync.Mutex
	records []*models.ResultRecord
}

func NewRecorder(detector upload.Detector) *Recorder {
	return &Recorder{Detector: detector}
}

func (r *Recorder) Detect(ctx context.Context, task upload.Task) (*models.DetectionResult, error) {
	result, err := r.Detector.Detect(ctx, task)
	if err != nil || result == nil || result.Error != "" {
		return result, err
	}

	mediaURL := result.ImageURL
	if result.VideoURL != "" {
		mediaURL = result.VideoURL
	}
	createdAt, perr := time.Parse(time.RFC3339, result.Timestamp)
	if perr != nil {
		createdAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, &models.ResultRecord{
		ID:         result.ID,
		Type:       task.Kind,
		Filename:   task.File.Name,
		Detections: result.Detections,
		MediaURL:   mediaURL,
		CreatedAt:  createdAt,
	})
	return result, nil
}

// Records returns the results seen so far, in submission order
func (r *Recorder) Records() []*models.ResultRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.ResultRecord(nil), r.records...)
}
