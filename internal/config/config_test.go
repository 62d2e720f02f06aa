package config

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, env map[string]string) *Config {
	t.Helper()
	cfg, err := load(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFrom(t, map[string]string{})

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, EncoderX264, cfg.Encoder)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, "fast", cfg.X264Preset)
	assert.Equal(t, 23, cfg.X264CRF)
	assert.Equal(t, 90, cfg.MJPEGQuality)
	assert.False(t, cfg.LazyFrames)
	assert.Equal(t, 4, cfg.FrameCacheSize)
	assert.False(t, cfg.ProbeOutput)
	assert.Equal(t, 30*time.Minute, cfg.RenderTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())

	assert.NoError(t, cfg.Validate())
}

func TestLoad_CustomValues(t *testing.T) {
	cfg := loadFrom(t, map[string]string{
		"PORT":                  "9000",
		"UPLOAD_DIR":            "/data/in",
		"OUTPUT_DIR":            "/data/out",
		"FPS":                   "30",
		"ENCODER":               "mjpeg",
		"LAZY_FRAMES":           "true",
		"FRAME_CACHE_SIZE":      "8",
		"MAX_UPLOAD_MB":         "10",
		"RENDER_TIMEOUT":        "90s",
		"S3_BUCKET":             "videos",
		"S3_REGION":             "ap-northeast-2",
		"S3_ENDPOINT":           "http://localhost:4566",
		"S3_PREFIX":             "slideshows",
		"AWS_ACCESS_KEY_ID":     "key",
		"AWS_SECRET_ACCESS_KEY": "secret",
		"LOG_FORMAT":            "json",
		"LOG_LEVEL":             "debug",
	})

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/data/in", cfg.UploadDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, EncoderMJPEG, cfg.Encoder)
	assert.True(t, cfg.LazyFrames)
	assert.Equal(t, 8, cfg.FrameCacheSize)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 90*time.Second, cfg.RenderTimeout)
	assert.Equal(t, "slideshows", cfg.S3Prefix)
	assert.True(t, cfg.S3Enabled())

	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidInteger(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"FPS": "fast"}))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"defaults", map[string]string{}, false},
		{"unknown encoder", map[string]string{"ENCODER": "vp9"}, true},
		{"zero fps", map[string]string{"FPS": "0"}, true},
		{"fps too high", map[string]string{"FPS": "240"}, true},
		{"crf out of range", map[string]string{"X264_CRF": "52"}, true},
		{"zero cache", map[string]string{"FRAME_CACHE_SIZE": "0"}, true},
		{"zero upload limit", map[string]string{"MAX_UPLOAD_MB": "0"}, true},
		{"bucket without region", map[string]string{"S3_BUCKET": "videos"}, true},
		{"bad endpoint", map[string]string{"S3_ENDPOINT": "not a url"}, true},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, true},
		{"negative timeout", map[string]string{"RENDER_TIMEOUT": "-1s"}, true},
		{"zero timeout disables", map[string]string{"RENDER_TIMEOUT": "0s"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loadFrom(t, tt.env).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_S3Enabled(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		region   string
		expected bool
	}{
		{"both set", "bucket", "region", true},
		{"only bucket", "bucket", "", false},
		{"only region", "", "region", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{S3Bucket: tt.bucket, S3Region: tt.region}
			assert.Equal(t, tt.expected, cfg.S3Enabled())
		})
	}
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		Port:               5000,
		UploadDir:          "/tmp/uploads",
		Encoder:            "x264",
		S3Bucket:           "bucket",
		S3Region:           "region",
		AWSAccessKeyID:     "AKIAEXAMPLE",
		AWSSecretAccessKey: "secret-key",
		LogFormat:          "json",
		LogLevel:           "info",
	}

	str := cfg.String()

	assert.Contains(t, str, "5000")
	assert.Contains(t, str, "/tmp/uploads")
	assert.Contains(t, str, "x264")

	assert.NotContains(t, str, "secret-key")
	assert.NotContains(t, str, "AKIAEXAMPLE")
}

func TestConfig_NewLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			cfg := &Config{LogFormat: format, LogLevel: "warn"}

			logger := cfg.NewLogger()
			require.NotNil(t, logger)
			assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
			assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
