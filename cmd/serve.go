package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/wildlife-tools/animaldetect/internal/config"
	"github.com/wildlife-tools/animaldetect/internal/detection"
	"github.com/wildlife-tools/animaldetect/internal/handlers"
	"github.com/wildlife-tools/animaldetect/internal/providers"
)

func newServeCmd() *cobra.Command {
	var (
		port          string
		provider      string
		model         string
		uploadDir     string
		resultDir     string
		staticDir     string
		inferenceURL  string
		confThreshold float64
		iouThreshold  float64
		maxUploadMB   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the detection server",
		Long: `Starts the detection server and the upload page.

Uploads posted to /detect are stored, sent to the configured detection
provider and answered with the animals found. Images with detections get an
annotated copy under /static/results/.

Settings come from the environment (or a .env file) and can be overridden
with flags.`,
		Example: `  # Start server on the default port 5000 using the model server
  animaldetect serve

  # Use Gemini for detection on a custom port
  animaldetect serve --provider gemini --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("provider") {
				cfg.Provider = provider
			}
			if flags.Changed("model") {
				cfg.Model = model
			}
			if flags.Changed("upload-dir") {
				cfg.UploadDir = uploadDir
			}
			if flags.Changed("result-dir") {
				cfg.ResultDir = resultDir
			}
			if flags.Changed("static-dir") {
				cfg.StaticDir = staticDir
			}
			if flags.Changed("inference-url") {
				cfg.InferenceURL = inferenceURL
			}
			if flags.Changed("conf") {
				cfg.ConfThreshold = confThreshold
			}
			if flags.Changed("iou") {
				cfg.IOUThreshold = iouThreshold
			}
			if flags.Changed("max-upload-mb") {
				cfg.MaxUploadMB = maxUploadMB
			}

			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "5000", "Port to listen on")
	cmd.Flags().StringVar(&provider, "provider", "inference", "Detection provider (inference, gemini, ollama, openai)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (uses the provider default if not specified)")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", "uploads", "Directory for stored uploads")
	cmd.Flags().StringVar(&resultDir, "result-dir", "static/results", "Directory for annotated results")
	cmd.Flags().StringVar(&staticDir, "static-dir", "static", "Directory holding the upload page")
	cmd.Flags().StringVar(&inferenceURL, "inference-url", "http://localhost:8000/predict", "Model server endpoint for the inference provider")
	cmd.Flags().Float64Var(&confThreshold, "conf", 0.5, "Default confidence threshold")
	cmd.Flags().Float64Var(&iouThreshold, "iou", 0.45, "IoU threshold for non-max suppression")
	cmd.Flags().Int64Var(&maxUploadMB, "max-upload-mb", 32, "Largest accepted upload in MB")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	service := detection.NewService(provider, detection.NewCatalog(cfg.ConfThreshold), providers.Config{
		Model:         cfg.Model,
		ConfThreshold: cfg.ConfThreshold,
		IOUThreshold:  cfg.IOUThreshold,
	})
	handler := handlers.New(service, handlers.Options{
		UploadDir:      cfg.UploadDir,
		ResultDir:      cfg.ResultDir,
		StaticDir:      cfg.StaticDir,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Providers:      availableProviders(cfg),
	})

	// Set up routes
	mux := http.NewServeMux()
	mux.HandleFunc("/detect", handler.HandleDetect)
	mux.HandleFunc("/api/results", handler.HandleResults)
	mux.HandleFunc("/api/results/", handler.HandleResultDetail)
	mux.HandleFunc("/api/models", handler.HandleModels)
	mux.HandleFunc("/uploads/", handler.HandleUploads)
	mux.HandleFunc("/", handler.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Detection server available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider, "model", cfg.Model)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation (Ctrl+C) or server error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
