// Package main renders a directory of JPEG images into a slideshow video.
//
// Usage:
//
//	slideshow -input ./uploads -output ./output/anniversary.mp4 [-fps 24]
//
// Encoder, frame cache and S3 settings are read from the environment, the
// same way the HTTP server reads them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SINU1012/my-baby-anniversary/internal/bootstrap"
	"github.com/SINU1012/my-baby-anniversary/internal/config"
	"github.com/SINU1012/my-baby-anniversary/internal/job"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	input  string
	output string
	fps    int
	push   bool
}

func parseFlags(args []string, cfg *config.Config) (options, error) {
	fs := flag.NewFlagSet("slideshow", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.input, "input", cfg.UploadDir, "directory of .jpg images")
	fs.StringVar(&opts.output, "output", "", "output video path (default: <OUTPUT_DIR>/slideshow<ext>)")
	fs.IntVar(&opts.fps, "fps", cfg.FPS, "output frame rate")
	fs.BoolVar(&opts.push, "s3", false, "upload the finished video to S3")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.fps < 1 || opts.fps > 120 {
		return options{}, fmt.Errorf("fps must be between 1 and 120, got %d", opts.fps)
	}
	return opts, nil
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	out, err := deps.RenderService.Render(ctx, job.RenderInput{
		InputDir:   opts.input,
		OutputPath: opts.output,
		FPS:        opts.fps,
		PushToS3:   opts.push,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	fmt.Printf("%s: %d images, %.1fs\n", out.VideoPath, out.ImageCount, out.DurationSec)
	if out.VideoURL != "" {
		fmt.Println(out.VideoURL)
	}
	return nil
}
