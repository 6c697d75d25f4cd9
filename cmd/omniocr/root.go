package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omniocr/internal/config"
	"omniocr/internal/correct"
	"omniocr/internal/langdetect"
	"omniocr/internal/logger"
	"omniocr/internal/ocr"
	"omniocr/internal/pdf"
	"omniocr/internal/pipeline"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	debug      bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "omniocr",
		Short:         "Recognise text in images and PDFs with tesseract or a vision model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Debug = true
			}
			if cfg.Debug {
				logger.SetDebug(true)
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a JSON config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(ocrCmd(a), batchCmd(a), serveCmd(a))
	return root
}

// engines builds the engine set with the configured detector and corrector.
// Engines themselves are built lazily on first Get.
func (a *app) engines(ctx context.Context) (*ocr.Engines, error) {
	det, err := langdetect.New(a.cfg.Detection.Languages)
	if err != nil {
		return nil, ocr.ConfigError("detector", err)
	}
	corr, err := correct.New(ctx, a.cfg)
	if err != nil {
		return nil, ocr.ConfigError("corrector", err)
	}
	logger.DebugLog("Correction provider=%s language=%s", a.cfg.Correction.Provider, a.cfg.Correction.Language)
	return ocr.NewEngines(a.cfg, ocr.WithCorrection(det, corr, a.cfg.Correction.Language)), nil
}

// pages returns the PDF rasterizer, or nil when pdftoppm is not installed.
func (a *app) pages() pipeline.PageRenderer {
	r := pdf.NewRasterizer(a.cfg.PDF.Pdftoppm, a.cfg.PDF.DPI)
	if !r.Available() {
		logger.Infof("%s not found, PDF inputs will be skipped", a.cfg.PDF.Pdftoppm)
		return nil
	}
	return r
}

// checkEngine rejects an unknown engine tag before anything touches disk.
func checkEngine(tag string) error {
	if _, ok := ocr.Resolve(tag); !ok {
		return ocr.ConfigError("engine", fmt.Errorf("unsupported engine: %s (supported: %s)", tag, strings.Join(ocr.Tags(), ", ")))
	}
	return nil
}
