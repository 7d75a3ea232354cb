package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleStatic serves the upload page, its assets and the annotated results
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	root := h.opts.StaticDir

	switch {
	case path == "":
		path = "index.html"
	case strings.HasPrefix(path, "static/results/"):
		path = strings.TrimPrefix(path, "static/results/")
		root = h.opts.ResultDir
	case strings.HasPrefix(path, "static/"):
		path = strings.TrimPrefix(path, "static/")
	default:
		http.NotFound(w, r)
		return
	}

	h.serveFile(w, r, root, path)
}

// HandleUploads serves stored uploads
func (h *Handler) HandleUploads(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, h.opts.UploadDir, strings.TrimPrefix(r.URL.Path, uploadsURLPrefix))
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, root, path string) {
	// Prevent directory traversal attacks
	if path == "" || strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFile(w, r, filepath.Join(root, filepath.FromSlash(path)))
}
