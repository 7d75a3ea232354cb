package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/wildlife-tools/animaldetect/internal/models"
	"github.com/wildlife-tools/animaldetect/internal/providers"
	"github.com/wildlife-tools/animaldetect/internal/storage"
)

// Detector runs detection on uploaded media
type Detector interface {
	Detect(ctx context.Context, media providers.Media) ([]models.Detection, error)
	Provider() models.ProviderInfo
	Model() string
}

// Options configures where the handler keeps media and how large uploads may be
type Options struct {
	UploadDir      string
	ResultDir      string
	StaticDir      string
	MaxUploadBytes int64
	// Providers lists the backends reported by /api/models
	Providers []models.ProviderInfo
}

type Handler struct {
	resultStore *storage.ResultStore
	detector    Detector
	opts        Options
	now         func() time.Time
}

func New(detector Detector, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &Handler{
		resultStore: storage.New(),
		detector:    detector,
		opts:        opts,
		now:         time.Now,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, data, http.StatusOK)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

// writeError answers with {"error": message} so the upload page can show it
func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSONStatus(w, map[string]string{"error": message}, code)
}

func (h *Handler) getResultOrError(w http.ResponseWriter, id string) (*models.ResultRecord, bool) {
	record, exists := h.resultStore.Get(id)
	if !exists {
		h.writeError(w, "Result not found", http.StatusNotFound)
		return nil, false
	}
	return record, true
}

func (h *Handler) ensureDirs() error {
	for _, dir := range []string{h.opts.UploadDir, h.opts.ResultDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
