package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wildlife-tools/animaldetect/internal/annotate"
	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/providers"
	"github.com/wildlife-tools/animaldetect/internal/utils"
)

const (
	uploadsURLPrefix = "/uploads/"
	resultsURLPrefix = "/static/results/"
)

// uploadFilename builds <type>_<timestamp>_<hash8><ext> for a stored upload
func uploadFilename(kind models.MediaKind, at time.Time, data []byte, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s_%s_%s%s", kind, at.Format("20060102_150405"), utils.CalculateDataMD5(data)[:8], ext)
}

func mediaType(contentType, filename string) string {
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (h *Handler) processUpload(ctx context.Context, fileData []byte, original, contentType string, kind models.MediaKind) (*models.DetectionResult, error) {
	if err := h.ensureDirs(); err != nil {
		return nil, fmt.Errorf("failed to create media directories: %w", err)
	}

	now := h.now()
	filename := uploadFilename(kind, now, fileData, original)
	uploadPath := filepath.Join(h.opts.UploadDir, filename)
	if err := os.WriteFile(uploadPath, fileData, 0644); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	slog.Info("Upload saved", "filename", filename, "type", kind, "size", len(fileData))

	detections, err := h.detector.Detect(ctx, providers.Media{
		Kind:     kind,
		Filename: filename,
		MIME:     mediaType(contentType, original),
		Data:     fileData,
	})
	if err != nil {
		return nil, err
	}
	if detections == nil {
		detections = []models.Detection{}
	}

	result := &models.DetectionResult{
		ID:         uuid.NewString(),
		Type:       kind,
		Detections: detections,
		Timestamp:  now.Format(time.RFC3339),
	}

	var mediaURL string
	if kind == models.MediaVideo {
		mediaURL, err = h.publishVideo(filename, fileData)
		if err != nil {
			return nil, err
		}
		result.VideoURL = mediaURL
	} else {
		mediaURL = h.publishImage(filename, uploadPath, detections)
		result.ImageURL = mediaURL
	}

	h.resultStore.Set(result.ID, &models.ResultRecord{
		ID:         result.ID,
		Type:       kind,
		Filename:   filename,
		Detections: detections,
		MediaURL:   mediaURL,
		Provider:   h.detector.Provider().ID,
		Model:      h.detector.Model(),
		CreatedAt:  now,
	})

	return result, nil
}

// publishImage writes an annotated copy when there is anything to draw.
// The plain upload is served otherwise.
func (h *Handler) publishImage(filename, uploadPath string, detections []models.Detection) string {
	if len(detections) == 0 {
		return uploadsURLPrefix + filename
	}

	detected := "detected_" + filename
	if err := annotate.File(uploadPath, filepath.Join(h.opts.ResultDir, detected), detections); err != nil {
		// Don't fail the request, the detections are still valid
		slog.Warn("Failed to annotate image", "filename", filename, "err", err)
		return uploadsURLPrefix + filename
	}
	return resultsURLPrefix + detected
}

func (h *Handler) publishVideo(filename string, fileData []byte) (string, error) {
	detected := "detected_" + filename
	if err := os.WriteFile(filepath.Join(h.opts.ResultDir, detected), fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to save result video: %w", err)
	}
	return resultsURLPrefix + detected, nil
}
