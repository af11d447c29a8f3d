package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/onetapdevai/ocr-screen-extractor/internal/config"
	"github.com/onetapdevai/ocr-screen-extractor/internal/ocr"
	"github.com/onetapdevai/ocr-screen-extractor/internal/runner"
	"github.com/onetapdevai/ocr-screen-extractor/internal/telemetry"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ocr-extract %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	cfg := config.Load()

	var (
		imagePath  = flag.String("image", "screenshot.png", "image file to recognize")
		imageDir   = flag.String("dir", "", "recognize every PNG/JPEG in this directory instead of -image")
		outDir     = flag.String("out", cfg.OutputDir, "directory for visualization output")
		lang       = flag.String("lang", cfg.Lang, "Tesseract language code")
		minConf    = flag.Float64("min-confidence", cfg.MinConfidence, "drop words below this confidence (0-1)")
		maxWidth   = flag.Int("max-width", cfg.ImgMaxW, "resize wider images down to this width before OCR (0 = off)")
		grayscale  = flag.Bool("grayscale", cfg.ImgGrayscale, "grayscale the image before OCR")
		binarize   = flag.Bool("binarize", cfg.ImgBinarize, "threshold the image to black and white before OCR")
		labels     = flag.Bool("labels", cfg.ShowLabels, "draw line numbers on the visualization")
		orient     = flag.Bool("orientation", cfg.DetectOrientation, "enable document orientation detection")
		detectOnly = flag.Bool("detect-only", false, "locate text regions without recognizing them")
		info       = flag.Bool("ocr-info", false, "print Tesseract availability and exit")
	)
	flag.Parse()

	telemetry.Init(telemetry.FromEnv(config.Get))
	log := telemetry.L()

	if *info {
		engineInfo := ocr.EngineInfo()
		if !engineInfo.Available {
			fmt.Printf("tesseract unavailable: %s\n", engineInfo.Error)
			os.Exit(1)
		}
		fmt.Printf("tesseract %s (%s)\n", engineInfo.Version, engineInfo.Backend)
		return
	}

	cfg.OutputDir = *outDir
	cfg.Lang = *lang
	cfg.MinConfidence = *minConf
	cfg.ImgMaxW = *maxWidth
	cfg.ImgGrayscale = *grayscale
	cfg.ImgBinarize = *binarize
	cfg.ShowLabels = *labels
	cfg.DetectOrientation = *orient

	engine := ocr.New(ocr.Options{
		Language:          cfg.Lang,
		DetectOrientation: cfg.DetectOrientation,
		MinConfidence:     cfg.MinConfidence,
	})
	r := runner.New(engine, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *imageDir != "" && *detectOnly:
		err = fmt.Errorf("-detect-only works on a single -image, not -dir")
	case *imageDir != "":
		_, err = r.RunAll(ctx, *imageDir)
	case *detectOnly:
		_, err = r.RunDetect(ctx, *imagePath)
	default:
		_, err = r.Run(ctx, *imagePath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("ocr failed")
	}
}
