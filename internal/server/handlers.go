package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/SINU1012/my-baby-anniversary/internal/job"
	"github.com/SINU1012/my-baby-anniversary/internal/metrics"
	"github.com/SINU1012/my-baby-anniversary/internal/storage"
)

// DefaultMaxUploadBytes caps an upload request body.
const DefaultMaxUploadBytes int64 = 50 << 20

// uploadField is the multipart field carrying the images.
const uploadField = "images"

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service            *job.RenderService
	store              storage.Storage
	validator          *validator.Validate
	logger             *slog.Logger
	maxUploadBytes     int64
	enableAsyncProcess bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncProcessing enables or disables background processing.
// When disabled, CreateSlideshow only creates the job and returns immediately
// without starting the render.
func WithAsyncProcessing(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncProcess = enabled
	}
}

// WithMaxUploadBytes limits the size of an upload request body.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *job.RenderService, store storage.Storage, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:            service,
		store:              store,
		validator:          validator.New(),
		logger:             logger,
		maxUploadBytes:     DefaultMaxUploadBytes,
		enableAsyncProcess: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Index handles GET / requests.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, IndexMessage)
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// UploadImages handles POST /upload_images requests.
// Every part of the "images" field is stored under its sanitized file name.
func (h *Handlers) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart/form-data body", "INVALID_MULTIPART")
		return
	}

	saved := make([]string, 0)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.uploadFailed(w, err)
			return
		}

		path, err := h.savePart(r.Context(), part)
		_ = part.Close()
		if err != nil {
			h.uploadFailed(w, err)
			return
		}
		if path != "" {
			saved = append(saved, path)
		}
	}

	metrics.UploadedFilesTotal.Add(float64(len(saved)))
	h.logger.Info("images uploaded",
		slog.Int("count", len(saved)),
	)

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:       "Upload success",
		UploadedFiles: saved,
	})
}

// savePart stores one multipart part. Parts outside the images field and
// parts without a file name are skipped.
func (h *Handlers) savePart(ctx context.Context, part *multipart.Part) (string, error) {
	if part.FormName() != uploadField || part.FileName() == "" {
		_, err := io.Copy(io.Discard, part)
		return "", err
	}
	return h.store.SaveUpload(ctx, part.FileName(), part)
}

func (h *Handlers) uploadFailed(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit", "PAYLOAD_TOO_LARGE")
	case errors.Is(err, storage.ErrInvalidFilename):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_FILENAME")
	default:
		h.logger.Error("failed to save upload",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to save upload", "UPLOAD_FAILED")
	}
}

// CreateSlideshow handles POST /slideshows requests.
func (h *Handlers) CreateSlideshow(w http.ResponseWriter, r *http.Request) {
	var req CreateSlideshowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	input := job.RenderInput{
		OutputName: req.OutputName,
		FPS:        req.FPS,
		PushToS3:   req.PushToS3,
	}

	createdJob, err := h.service.CreateJob(r.Context(), input)
	if err != nil {
		h.logger.Error("failed to create job",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
		return
	}

	// Detached from the request so the render outlives it.
	if h.enableAsyncProcess {
		go func(ctx context.Context, jobID string) {
			if _, err := h.service.ProcessExistingJob(ctx, jobID); err != nil {
				h.logger.Error("background render failed",
					slog.String("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
		}(context.WithoutCancel(r.Context()), createdJob.ID)
	}

	h.logger.Info("slideshow job created",
		slog.String("job_id", createdJob.ID),
		slog.Int("fps", createdJob.FPS),
	)

	writeJSON(w, http.StatusAccepted, CreateSlideshowResponse{
		ID:     createdJob.ID,
		Status: string(createdJob.Status),
	})
}

// GetSlideshow handles GET /slideshows/{id} requests.
func (h *Handlers) GetSlideshow(w http.ResponseWriter, r *http.Request) {
	found, ok := h.findJob(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toSlideshowResponse(found))
}

// ListSlideshows handles GET /slideshows requests.
func (h *Handlers) ListSlideshows(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("failed to list jobs",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list jobs", "JOB_LIST_FAILED")
		return
	}

	resp := SlideshowListResponse{Slideshows: make([]SlideshowResponse, 0, len(jobs))}
	for _, j := range jobs {
		resp.Slideshows = append(resp.Slideshows, toSlideshowResponse(j))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toSlideshowResponse(j *job.Job) SlideshowResponse {
	resp := SlideshowResponse{
		ID:          j.ID,
		Status:      string(j.Status),
		Progress:    j.Progress,
		Error:       j.Error,
		ImageCount:  j.ImageCount,
		DurationSec: j.DurationSec,
	}
	if j.Status == job.StatusCompleted {
		resp.VideoURL = j.VideoURL
	}
	return resp
}

// GetSlideshowVideo handles GET /slideshows/{id}/video requests by streaming
// the finished video.
func (h *Handlers) GetSlideshowVideo(w http.ResponseWriter, r *http.Request) {
	found, ok := h.findJob(w, r)
	if !ok {
		return
	}

	if found.Status != job.StatusCompleted {
		writeError(w, http.StatusConflict, "video is not ready", "VIDEO_NOT_READY")
		return
	}

	f, err := h.store.Open(r.Context(), found.OutputPath)
	if err != nil {
		h.logger.Error("failed to open output video",
			slog.String("job_id", found.ID),
			slog.String("path", found.OutputPath),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusNotFound, "video file not found", "VIDEO_NOT_FOUND")
		return
	}
	defer func() { _ = f.Close() }()

	name := filepath.Base(found.OutputPath)
	w.Header().Set("Content-Type", storage.ContentType(name))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if rs, ok := f.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, found.CompletedAt, rs)
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("failed to stream video",
			slog.String("job_id", found.ID),
			slog.String("error", err.Error()),
		)
	}
}

// findJob resolves the {id} path value, writing the error response itself
// when the job cannot be returned.
func (h *Handlers) findJob(w http.ResponseWriter, r *http.Request) (*job.Job, bool) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job ID is required", "MISSING_JOB_ID")
		return nil, false
	}

	found, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return nil, false
		}
		h.logger.Error("failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job", "JOB_FETCH_FAILED")
		return nil, false
	}
	return found, true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
