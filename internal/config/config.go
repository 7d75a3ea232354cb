package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds the server and client settings read from the environment
type Config struct {
	Port          string
	UploadDir     string
	ResultDir     string
	StaticDir     string
	Provider      string
	Model         string
	InferenceURL  string
	ConfThreshold float64
	IOUThreshold  float64
	MaxUploadMB   int64
	ServerURL     string
}

// Load reads the configuration, falling back to defaults for unset keys
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "5000"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		ResultDir:     getEnv("RESULT_DIR", "static/results"),
		StaticDir:     getEnv("STATIC_DIR", "static"),
		Provider:      getEnv("DETECTION_PROVIDER", "inference"),
		Model:         getEnv("DETECTION_MODEL", ""),
		InferenceURL:  getEnv("INFERENCE_URL", "http://localhost:8000/predict"),
		ConfThreshold: getEnvFloat("CONF_THRESHOLD", 0.5),
		IOUThreshold:  getEnvFloat("IOU_THRESHOLD", 0.45),
		MaxUploadMB:   getEnvInt("MAX_UPLOAD_MB", 32),
		ServerURL:     getEnv("DETECT_SERVER_URL", "http://localhost:5000"),
	}
}

// MaxUploadBytes returns the upload cap in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		slog.Warn("Ignoring invalid float setting", "key", key, "value", val, "err", err)
		return defaultVal
	}
	return f
}

func getEnvInt(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", val, "err", err)
		return defaultVal
	}
	return i
}
