package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".mp4":  true,
	".avi":  true,
	".mov":  true,
}

func allowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// HandleDetect accepts a multipart upload and answers with the detections
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.writeError(w, fmt.Sprintf("File too large (max %dMB)", h.opts.MaxUploadBytes>>20), http.StatusRequestEntityTooLarge)
		case errors.Is(err, http.ErrNotMultipart):
			h.writeError(w, "No file part", http.StatusBadRequest)
		default:
			h.writeError(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// a part sent with an empty filename is parsed as a plain value
		if _, ok := r.MultipartForm.Value["file"]; ok {
			h.writeError(w, "No selected file", http.StatusBadRequest)
			return
		}
		h.writeError(w, "No file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.writeError(w, "No selected file", http.StatusBadRequest)
		return
	}
	if !allowedFile(header.Filename) {
		h.writeError(w, "File type not allowed", http.StatusBadRequest)
		return
	}

	kind := models.MediaKind(r.FormValue("type"))
	if kind == "" {
		kind = models.MediaImage
	}
	if kind != models.MediaImage && kind != models.MediaVideo {
		h.writeError(w, "Invalid type. Must be 'image' or 'video'", http.StatusBadRequest)
		return
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := h.processUpload(r.Context(), fileData, header.Filename, header.Header.Get("Content-Type"), kind)
	if err != nil {
		h.writeError(w, "Error processing file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// HandleModels lists the detection backends and marks the active one
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, map[string]any{
		"active":    h.detector.Provider().ID,
		"model":     h.detector.Model(),
		"providers": h.opts.Providers,
	})
}
