package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/SINU1012/my-baby-anniversary/internal/canvas"
	"github.com/SINU1012/my-baby-anniversary/internal/media"
	"github.com/SINU1012/my-baby-anniversary/internal/metrics"
	"github.com/SINU1012/my-baby-anniversary/internal/slideshow"
	"github.com/SINU1012/my-baby-anniversary/internal/source"
	"github.com/SINU1012/my-baby-anniversary/internal/storage"
)

// DefaultOutputName is the base name of the video when none is requested.
const DefaultOutputName = "slideshow"

// Progress checkpoints reported while a render runs.
const (
	progressScanned = 10
	progressBuilt   = 60
	progressEncoded = 90
)

// Prober inspects a finished video.
type Prober interface {
	Probe(ctx context.Context, path string) (media.VideoInfo, error)
}

// RenderInput contains the parameters of one render.
type RenderInput struct {
	// InputDir is the directory to read images from. Defaults to the
	// storage upload directory.
	InputDir string
	// OutputName is a file name inside the storage output directory.
	// Its extension is replaced by the encoder's.
	OutputName string
	// OutputPath overrides OutputName with an explicit destination.
	OutputPath string
	// FPS is the output frame rate. Zero uses the service default.
	FPS int
	// PushToS3 indicates whether to upload the final video to S3.
	PushToS3 bool
}

// RenderOutput contains the result of a render.
type RenderOutput struct {
	// JobID is the unique identifier for the job.
	JobID string
	// Status is the final job status.
	Status Status
	// VideoPath is the local path to the output video.
	VideoPath string
	// VideoURL is the S3 URL of the output video (if pushed to S3).
	VideoURL string
	// ImageCount is the number of images in the video.
	ImageCount int
	// DurationSec is the video duration in seconds.
	DurationSec float64
	// Error contains any error message if rendering failed.
	Error string
}

// RenderService turns a directory of images into a slideshow video.
//
// Dependencies:
//   - storage.Storage: upload/output directories, atomic output replace and S3
//   - media.Encoder: writes the sampled clip to a video file
//   - canvas.Builder: letterboxes each image onto the output canvas
//   - Prober (optional): inspects the finished video
//   - Repository: Job persistence
type RenderService struct {
	repo        Repository
	store       storage.Storage
	encoder     media.Encoder
	encoderName string
	builder     *canvas.Builder
	prober      Prober
	logger      *slog.Logger

	fps       int
	lazy      bool
	cacheSize int
	timeout   time.Duration
}

// ServiceOption configures a RenderService.
type ServiceOption func(*RenderService)

// WithFPS sets the default output frame rate.
func WithFPS(fps int) ServiceOption {
	return func(s *RenderService) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// WithLazyFrames builds frames on demand during encoding, keeping at most
// cacheSize of them in memory.
func WithLazyFrames(cacheSize int) ServiceOption {
	return func(s *RenderService) {
		s.lazy = true
		s.cacheSize = cacheSize
	}
}

// WithProber inspects every finished video with p.
func WithProber(p Prober) ServiceOption {
	return func(s *RenderService) {
		s.prober = p
	}
}

// WithBuilder replaces the default canvas builder.
func WithBuilder(b *canvas.Builder) ServiceOption {
	return func(s *RenderService) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithEncoderName sets the encoder name recorded on jobs.
func WithEncoderName(name string) ServiceOption {
	return func(s *RenderService) {
		s.encoderName = name
	}
}

// WithRenderTimeout bounds how long a single render may run.
// Renders that exceed it end in TIMED_OUT.
func WithRenderTimeout(d time.Duration) ServiceOption {
	return func(s *RenderService) {
		s.timeout = d
	}
}

// NewRenderService creates a new RenderService.
func NewRenderService(
	repo Repository,
	store storage.Storage,
	encoder media.Encoder,
	logger *slog.Logger,
	opts ...ServiceOption,
) *RenderService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RenderService{
		repo:        repo,
		store:       store,
		encoder:     encoder,
		encoderName: strings.TrimPrefix(encoder.Extension(), "."),
		builder:     canvas.NewBuilder(),
		logger:      logger,
		fps:         slideshow.DefaultFPS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob creates a new job and persists it to the repository.
// The job is created in IN_QUEUE status, ready for processing.
func (s *RenderService) CreateJob(ctx context.Context, input RenderInput) (*Job, error) {
	job := New()
	job.InputDir = s.inputDir(input)
	job.OutputPath = s.outputPath(input)
	job.Encoder = s.encoderName
	job.FPS = s.frameRate(input)
	job.PushToS3 = input.PushToS3

	s.logger.Info("creating new job",
		slog.String("job_id", job.ID),
		slog.String("input_dir", job.InputDir),
		slog.String("output", job.OutputPath),
		slog.Int("fps", job.FPS),
		slog.Bool("push_to_s3", input.PushToS3),
	)

	if err := s.repo.Save(ctx, job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return job, nil
}

// GetJob retrieves a job by ID.
func (s *RenderService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// ListJobs returns every job, oldest first.
func (s *RenderService) ListJobs(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

// Render creates a job and renders it synchronously.
func (s *RenderService) Render(ctx context.Context, input RenderInput) (*RenderOutput, error) {
	job, err := s.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.ProcessExistingJob(ctx, job.ID)
}

// ProcessExistingJob renders a job previously created with CreateJob.
// Directories, frame rate and the S3 flag are taken from the stored job.
//
// The workflow:
//  1. Enumerate the source images in sorted name order
//  2. Build the frame sequence (eagerly, or lazily behind an LRU cache)
//  3. Encode into a temp file beside the destination
//  4. Atomically replace the destination
//  5. Optionally probe the result and push it to S3
//
// Any failure before step 4 leaves a previous output untouched.
func (s *RenderService) ProcessExistingJob(ctx context.Context, jobID string) (*RenderOutput, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job %s: %w", jobID, err)
	}

	if err := job.Start(); err != nil {
		return nil, fmt.Errorf("start job %s: %w", jobID, err)
	}
	s.save(ctx, job)

	renderCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	renderErr := s.render(renderCtx, job)
	if renderErr != nil {
		s.finishWithError(context.WithoutCancel(ctx), job, renderErr)
		return s.output(job), renderErr
	}

	if err := job.Complete(); err != nil {
		return nil, fmt.Errorf("complete job %s: %w", jobID, err)
	}
	s.save(ctx, job)
	metrics.RendersTotal.WithLabelValues(strings.ToLower(string(StatusCompleted))).Inc()

	s.logger.Info("render completed",
		slog.String("job_id", job.ID),
		slog.String("output", job.OutputPath),
		slog.Int("images", job.ImageCount),
		slog.Duration("elapsed", time.Since(start)),
	)

	return s.output(job), nil
}

func (s *RenderService) render(ctx context.Context, job *Job) error {
	logger := s.logger.With(slog.String("job_id", job.ID))

	stageStart := time.Now()
	images, err := source.Scan(job.InputDir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", job.InputDir, err)
	}
	if len(images) == 0 {
		return fmt.Errorf("no %s images in %s: %w", source.Extension, job.InputDir, slideshow.ErrEmptySequence)
	}
	observeStage("scan", stageStart)

	job.SetSources(len(images), job.FPS)
	job.UpdateProgress(progressScanned)
	s.save(ctx, job)
	logger.Info("sources found", slog.Int("images", len(images)))

	stageStart = time.Now()
	seq, lazy, err := s.buildSequence(ctx, job, images)
	if err != nil {
		return err
	}
	observeStage("build", stageStart)

	stageStart = time.Now()
	if err := s.encode(ctx, job, seq); err != nil {
		return err
	}
	if lazy != nil {
		metrics.FramesBuiltTotal.Add(float64(lazy.Builds()))
	}
	observeStage("encode", stageStart)
	job.UpdateProgress(progressEncoded)
	s.save(ctx, job)

	if s.prober != nil {
		s.probe(ctx, logger, job)
	}

	if job.PushToS3 {
		stageStart = time.Now()
		url, err := s.publish(ctx, job.OutputPath)
		if err != nil {
			return err
		}
		job.SetOutput(job.OutputPath, url)
		observeStage("publish", stageStart)
		logger.Info("video published", slog.String("url", url))
	}

	return nil
}

// buildSequence returns the frame source for the render. In lazy mode the
// second return value exposes the build counter.
func (s *RenderService) buildSequence(ctx context.Context, job *Job, images []source.Image) (slideshow.FrameSource, *slideshow.LazySequence, error) {
	if s.lazy {
		lazy, err := slideshow.NewLazySequence(images, s.builder, s.cacheSize)
		if err != nil {
			return nil, nil, err
		}
		return lazy, lazy, nil
	}

	seq, err := slideshow.BuildSequence(ctx, images, s.builder, func(done, total int) {
		metrics.FramesBuiltTotal.Inc()
		job.UpdateProgress(progressScanned + (progressBuilt-progressScanned)*done/total)
	})
	if err != nil {
		return nil, nil, err
	}
	job.UpdateProgress(progressBuilt)
	s.save(ctx, job)
	return seq, nil, nil
}

// encode writes seq to a temp file and renames it over the job output.
func (s *RenderService) encode(ctx context.Context, job *Job, seq slideshow.FrameSource) error {
	dst := job.OutputPath
	tmp, err := s.store.ReserveTemp(ctx, dst)
	if err != nil {
		return fmt.Errorf("reserve output: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.store.CleanupTemp(context.WithoutCancel(ctx), []string{tmp})
		}
	}()

	if err := s.encoder.Encode(ctx, tmp, slideshow.NewClip(seq, job.FPS)); err != nil {
		return err
	}
	if err := s.store.Commit(ctx, tmp, dst); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *RenderService) probe(ctx context.Context, logger *slog.Logger, job *Job) {
	info, err := s.prober.Probe(ctx, job.OutputPath)
	if err != nil {
		logger.Warn("failed to probe output", slog.String("error", err.Error()))
		return
	}

	expected := job.ImageCount * slideshow.SecondsPerFrame * job.FPS
	attrs := []any{
		slog.Int("frames", info.Frames),
		slog.Int("expected_frames", expected),
		slog.Float64("duration", info.Duration),
		slog.Int("width", info.Width),
		slog.Int("height", info.Height),
	}
	if info.Frames != expected {
		logger.Warn("output frame count mismatch", attrs...)
		return
	}
	logger.Debug("output probed", attrs...)
}

func (s *RenderService) publish(ctx context.Context, path string) (string, error) {
	f, err := s.store.Open(ctx, path)
	if err != nil {
		return "", fmt.Errorf("open output: %w", err)
	}
	defer func() { _ = f.Close() }()

	url, err := s.store.UploadToS3(ctx, filepath.Base(path), f)
	if err != nil {
		return "", fmt.Errorf("publish output: %w", err)
	}
	return url, nil
}

// finishWithError moves the job to the terminal state matching err.
func (s *RenderService) finishWithError(ctx context.Context, job *Job, err error) {
	var transErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		transErr = job.Timeout()
	case errors.Is(err, context.Canceled):
		transErr = job.Cancel()
	default:
		transErr = job.Fail(err.Error())
	}
	if transErr != nil {
		s.logger.Error("failed to update job status",
			slog.String("job_id", job.ID),
			slog.String("error", transErr.Error()),
		)
	}

	job.mu.Lock()
	if job.Error == "" {
		job.Error = err.Error()
	}
	job.mu.Unlock()

	status := job.GetStatus()
	s.save(ctx, job)
	metrics.RendersTotal.WithLabelValues(strings.ToLower(string(status))).Inc()

	s.logger.Error("render failed",
		slog.String("job_id", job.ID),
		slog.String("status", string(status)),
		slog.String("error", err.Error()),
	)
}

func (s *RenderService) save(ctx context.Context, job *Job) {
	if err := s.repo.Save(ctx, job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *RenderService) output(job *Job) *RenderOutput {
	snap := job.Clone()
	return &RenderOutput{
		JobID:       snap.ID,
		Status:      snap.Status,
		VideoPath:   snap.OutputPath,
		VideoURL:    snap.VideoURL,
		ImageCount:  snap.ImageCount,
		DurationSec: snap.DurationSec,
		Error:       snap.Error,
	}
}

func (s *RenderService) inputDir(input RenderInput) string {
	if input.InputDir != "" {
		return input.InputDir
	}
	return s.store.UploadDir()
}

// outputPath always carries the encoder's extension; any other extension on
// an explicit path or name is replaced.
func (s *RenderService) outputPath(input RenderInput) string {
	if input.OutputPath != "" {
		return strings.TrimSuffix(input.OutputPath, filepath.Ext(input.OutputPath)) + s.encoder.Extension()
	}
	name := storage.SecureFilename(input.OutputName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		name = DefaultOutputName
	}
	return filepath.Join(s.store.OutputDir(), name+s.encoder.Extension())
}

func (s *RenderService) frameRate(input RenderInput) int {
	if input.FPS > 0 {
		return input.FPS
	}
	return s.fps
}

func observeStage(stage string, start time.Time) {
	metrics.RenderStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
