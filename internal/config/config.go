// Package config holds runtime configuration: defaults, YAML file loading,
// environment overrides, and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Quality selects the output encoding tier. It maps to a fixed CRF/preset
// pair; the codec itself (H.264 + AAC) is not configurable.
type Quality string

const (
	QualityHigh   Quality = "high"   // CRF 18, preset slow.
	QualityMedium Quality = "medium" // CRF 23, preset medium (default).
	QualityLow    Quality = "low"    // CRF 28, preset fast.
)

// CRF returns the x264 constant rate factor for the tier.
func (q Quality) CRF() int {
	switch q {
	case QualityHigh:
		return 18
	case QualityLow:
		return 28
	default:
		return 23
	}
}

// Preset returns the x264 preset for the tier.
func (q Quality) Preset() string {
	switch q {
	case QualityHigh:
		return "slow"
	case QualityLow:
		return "fast"
	default:
		return "medium"
	}
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a YAML file via [LoadFile], then from RENDERD_*
// environment variables via [ApplyEnv], and passed (by pointer) to packages
// that need it.
type Config struct {
	// HTTP server.
	Port int `yaml:"port"` // Default: 8080.

	// Filesystem layout.
	WorkDir   string `yaml:"work_dir"`   // Per-job scratch root. Default: os.TempDir()/renderd.
	OutputDir string `yaml:"output_dir"` // Rendered artifact store root. Default: "./renders".

	// Delivery.
	PublicBaseURL string `yaml:"public_base_url"` // URL prefix for uploaded artifacts. Default: "http://localhost:8080/files".
	WebhookSecret string `yaml:"webhook_secret"`  // HMAC key for callback signatures. Empty disables signing.

	// Encoding.
	Quality Quality `yaml:"quality"` // Default: "medium".

	// Pipeline timing.
	DownloadTimeout time.Duration `yaml:"download_timeout"` // Per-asset fetch bound. Default: 180s.
	JobRetention    time.Duration `yaml:"job_retention"`    // Terminal-record retention. Default: 1h.

	// External binaries.
	FFmpegBin  string `yaml:"ffmpeg_bin"`  // Default: "ffmpeg".
	FFprobeBin string `yaml:"ffprobe_bin"` // Default: "ffprobe".

	// Logging.
	LogLevel  string `yaml:"log_level"`  // zerolog level string. Default: "info".
	LogPretty bool   `yaml:"log_pretty"` // Console writer instead of JSON.
}

// DefaultConfig returns a Config with all defaults applied. Used as the
// base before LoadFile/ApplyEnv overlays.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		WorkDir:         "",
		OutputDir:       "renders",
		PublicBaseURL:   "http://localhost:8080/files",
		Quality:         QualityMedium,
		DownloadTimeout: 180 * time.Second,
		JobRetention:    time.Hour,
		FFmpegBin:       "ffmpeg",
		FFprobeBin:      "ffprobe",
		LogLevel:        "info",
		LogPretty:       false,
	}
}

// LoadFile overlays cfg with values from a YAML file. A missing file is not
// an error so deployments can run on defaults plus environment alone.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays cfg with RENDERD_* environment variables. Unset or
// malformed values leave the existing setting untouched.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("RENDERD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("RENDERD_WORK_DIR"); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv("RENDERD_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("RENDERD_PUBLIC_BASE_URL"); v != "" {
		cfg.PublicBaseURL = v
	}
	if v := os.Getenv("RENDERD_WEBHOOK_SECRET"); v != "" {
		cfg.WebhookSecret = v
	}
	if v := os.Getenv("RENDERD_QUALITY"); v != "" {
		cfg.Quality = Quality(v)
	}
	if v := os.Getenv("RENDERD_DOWNLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DownloadTimeout = d
		}
	}
	if v := os.Getenv("RENDERD_JOB_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JobRetention = d
		}
	}
	if v := os.Getenv("RENDERD_FFMPEG_BIN"); v != "" {
		cfg.FFmpegBin = v
	}
	if v := os.Getenv("RENDERD_FFPROBE_BIN"); v != "" {
		cfg.FFprobeBin = v
	}
	if v := os.Getenv("RENDERD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RENDERD_LOG_PRETTY"); v != "" {
		cfg.LogPretty = v == "1" || v == "true"
	}
}

// Validate checks cross-field constraints. Called once at startup after all
// overlays are applied.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Quality {
	case QualityHigh, QualityMedium, QualityLow:
	default:
		return fmt.Errorf("invalid quality %q (want high, medium, or low)", c.Quality)
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("download timeout must be positive, got %s", c.DownloadTimeout)
	}
	if c.JobRetention <= 0 {
		return fmt.Errorf("job retention must be positive, got %s", c.JobRetention)
	}
	if c.FFmpegBin == "" || c.FFprobeBin == "" {
		return fmt.Errorf("ffmpeg and ffprobe binary names must not be empty")
	}
	return nil
}

// ResolveWorkDir returns the scratch root, defaulting under the system temp
// directory when unset.
func (c *Config) ResolveWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return os.TempDir() + string(os.PathSeparator) + "renderd"
}
