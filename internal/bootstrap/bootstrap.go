// Package bootstrap wires configuration into the storage, encoder and
// render service shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SINU1012/my-baby-anniversary/internal/config"
	"github.com/SINU1012/my-baby-anniversary/internal/job"
	"github.com/SINU1012/my-baby-anniversary/internal/media"
	"github.com/SINU1012/my-baby-anniversary/internal/storage"
)

// Dependencies holds all initialized dependencies for the application.
type Dependencies struct {
	Storage       storage.Storage
	RenderService *job.RenderService
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	encoder, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	opts := []job.ServiceOption{
		job.WithFPS(cfg.FPS),
		job.WithEncoderName(cfg.Encoder),
		job.WithRenderTimeout(cfg.RenderTimeout),
	}
	if cfg.LazyFrames {
		opts = append(opts, job.WithLazyFrames(cfg.FrameCacheSize))
	}
	if cfg.ProbeOutput {
		opts = append(opts, job.WithProber(media.NewFFmpegProber(cfg.FFprobePath)))
	}

	svc := job.NewRenderService(job.NewMemoryRepository(), store, encoder, logger, opts...)

	logger.Info("render service configured",
		slog.String("encoder", cfg.Encoder),
		slog.Int("fps", cfg.FPS),
		slog.Bool("lazy_frames", cfg.LazyFrames),
		slog.Bool("probe_output", cfg.ProbeOutput),
	)

	return &Dependencies{
		Storage:       store,
		RenderService: svc,
	}, nil
}

// NewEncoder returns the encoder selected by cfg.Encoder.
func NewEncoder(cfg *config.Config) (media.Encoder, error) {
	switch cfg.Encoder {
	case config.EncoderX264, "":
		return media.NewFFmpegEncoder(cfg.FFmpegPath,
			media.WithPreset(cfg.X264Preset),
			media.WithCRF(cfg.X264CRF),
		), nil
	case config.EncoderMJPEG:
		return media.NewMJPEGEncoder(cfg.MJPEGQuality), nil
	default:
		return nil, fmt.Errorf("%w: unknown encoder %q", config.ErrInvalidConfig, cfg.Encoder)
	}
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	localStore, err := storage.NewLocalStorage(cfg.UploadDir, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Prefix:          cfg.S3Prefix,
		}
		s3Store, err := storage.NewS3Storage(ctx, localStore, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	logger.Info("local storage configured",
		slog.String("upload_dir", localStore.UploadDir()),
		slog.String("output_dir", localStore.OutputDir()),
	)
	return localStore, nil
}
