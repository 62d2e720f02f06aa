// Package server provides the HTTP server for the slideshow service.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// IndexMessage is the plain-text greeting served on GET /.
const IndexMessage = "Hello from the slideshow upload API!"

// UploadResponse is the HTTP response after uploading images.
type UploadResponse struct {
	// Message is a human-readable status.
	Message string `json:"message"`
	// UploadedFiles lists the stored path of every saved image.
	UploadedFiles []string `json:"uploaded_files"`
}

// CreateSlideshowRequest is the HTTP request body for rendering the
// uploaded images into a video.
type CreateSlideshowRequest struct {
	// OutputName is the video file name. The extension follows the encoder.
	OutputName string `json:"output_name" validate:"omitempty,max=128,excludesall=/\\"`
	// FPS is the output frame rate. Zero uses the server default.
	FPS int `json:"fps" validate:"omitempty,min=1,max=120"`
	// PushToS3 indicates whether to upload the final video to S3.
	PushToS3 bool `json:"push_to_s3"`
}

// CreateSlideshowResponse is the HTTP response after creating a render job.
type CreateSlideshowResponse struct {
	// ID is the unique identifier for the created job.
	ID string `json:"id"`
	// Status is the initial job status.
	Status string `json:"status"`
}

// SlideshowResponse is the HTTP response for getting render job details.
type SlideshowResponse struct {
	// ID is the unique identifier for the job.
	ID string `json:"id"`
	// Status is the current job status.
	Status string `json:"status"`
	// Progress is the percentage of completion (0-100).
	Progress int `json:"progress"`
	// Error contains any error message if the job failed.
	Error string `json:"error,omitempty"`
	// ImageCount is the number of images in the video.
	ImageCount int `json:"image_count"`
	// DurationSec is the video length in seconds.
	DurationSec float64 `json:"duration_sec"`
	// VideoURL is the S3 URL of the output video (if push_to_s3=true and completed).
	VideoURL string `json:"video_url,omitempty"`
}

// SlideshowListResponse is the HTTP response for listing render jobs.
type SlideshowListResponse struct {
	Slideshows []SlideshowResponse `json:"slideshows"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
