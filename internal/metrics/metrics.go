// Package metrics exposes Prometheus collectors for the render pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slideshow_renders_total",
		Help: "Total number of slideshow renders, by final status",
	}, []string{"status"})

	RenderStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slideshow_render_stage_seconds",
		Help:    "Duration of each render pipeline stage",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"stage"})

	FramesBuiltTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slideshow_frames_built_total",
		Help: "Total number of canvas frames built from source images",
	})

	UploadedFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slideshow_uploaded_files_total",
		Help: "Total number of images accepted by the upload endpoint",
	})
)

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
