// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Encoder names accepted by ENCODER.
const (
	EncoderX264  = "x264"
	EncoderMJPEG = "mjpeg"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port        int `env:"PORT, default=5000" json:"port" validate:"min=1,max=65535"`
	MaxUploadMB int `env:"MAX_UPLOAD_MB, default=50" json:"max_upload_mb" validate:"min=1"`

	// Storage settings
	UploadDir string `env:"UPLOAD_DIR, default=uploads" json:"upload_dir" validate:"required"`
	OutputDir string `env:"OUTPUT_DIR, default=output" json:"output_dir" validate:"required"`

	// Rendering settings
	FPS            int           `env:"FPS, default=24" json:"fps" validate:"min=1,max=120"`
	Encoder        string        `env:"ENCODER, default=x264" json:"encoder" validate:"oneof=x264 mjpeg"`
	FFmpegPath     string        `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	FFprobePath    string        `env:"FFPROBE_PATH, default=ffprobe" json:"ffprobe_path"`
	X264Preset     string        `env:"X264_PRESET, default=fast" json:"x264_preset"`
	X264CRF        int           `env:"X264_CRF, default=23" json:"x264_crf" validate:"min=0,max=51"`
	MJPEGQuality   int           `env:"MJPEG_QUALITY, default=90" json:"mjpeg_quality" validate:"min=1,max=100"`
	LazyFrames     bool          `env:"LAZY_FRAMES, default=false" json:"lazy_frames"`
	FrameCacheSize int           `env:"FRAME_CACHE_SIZE, default=4" json:"frame_cache_size" validate:"min=1,max=1024"`
	ProbeOutput    bool          `env:"PROBE_OUTPUT, default=false" json:"probe_output"`
	RenderTimeout  time.Duration `env:"RENDER_TIMEOUT, default=30m" json:"render_timeout"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty" validate:"required_with=S3Bucket"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	S3Prefix           string `env:"S3_PREFIX" json:"s3_prefix,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format" validate:"oneof=text json TEXT JSON"`
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"` // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// MaxUploadBytes returns the upload body limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that every value is within its accepted range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("%w: RENDER_TIMEOUT must not be negative", ErrInvalidConfig)
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, UploadDir: %s, OutputDir: %s, FPS: %d, Encoder: %s, LazyFrames: %t, FrameCacheSize: %d, MaxUploadMB: %d, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.UploadDir,
		c.OutputDir,
		c.FPS,
		c.Encoder,
		c.LazyFrames,
		c.FrameCacheSize,
		c.MaxUploadMB,
		c.S3Bucket,
		c.S3Region,
		c.S3Endpoint,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
