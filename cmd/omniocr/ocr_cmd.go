package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"omniocr/internal/image"
	"omniocr/internal/logger"
	"omniocr/internal/ocr"
	"omniocr/internal/textnorm"
	"omniocr/internal/writer"
)

func ocrCmd(a *app) *cobra.Command {
	var engineTag string
	var lang string
	var output string
	var preprocess bool

	cmd := &cobra.Command{
		Use:   "ocr <input>",
		Short: "Run OCR on an image and print or save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("engine") {
				engineTag = a.cfg.Engine
			}
			if !cmd.Flags().Changed("lang") {
				lang = a.cfg.Lang
			}
			if !cmd.Flags().Changed("preprocess") {
				preprocess = a.cfg.Preprocess
			}
			if err := checkEngine(engineTag); err != nil {
				return err
			}

			input := args[0]
			if _, err := os.Stat(input); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file not found: %s", input)
				}
				return err
			}

			text, err := a.recognizeFile(cmd.Context(), engineTag, lang, input, preprocess)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				if err := writer.NewTextWriter().Write(cmd.Context(), output, text); err != nil {
					return err
				}
				fmt.Fprintf(out, "OCR result saved to %s\n", output)
				return nil
			}
			fmt.Fprintln(out, "--- OCR Result ---")
			fmt.Fprintln(out, text)
			return nil
		},
	}
	cmd.Flags().StringVar(&engineTag, "engine", "tesseract", "OCR engine to use (tesseract, ollama, gemini, easyocr)")
	cmd.Flags().StringVar(&lang, "lang", "auto", "language hint (e.g. fa, en, eng+fas, auto)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "optional path to save the output text")
	cmd.Flags().BoolVar(&preprocess, "preprocess", true, "upscale, grayscale and sharpen before recognition")
	return cmd
}

func (a *app) recognizeFile(ctx context.Context, engineTag, lang, input string, preprocess bool) (string, error) {
	engines, err := a.engines(ctx)
	if err != nil {
		return "", err
	}
	defer engines.Close()

	facade, err := engines.Get(ctx, engineTag)
	if err != nil {
		return "", err
	}

	img, err := image.Open(input)
	if err != nil {
		return "", ocr.DecodeError("open", err)
	}
	if preprocess {
		img = image.NewImageProcessor(a.cfg.Threshold).EnhanceQuality(img)
	}

	res, err := facade.Recognize(ctx, ocr.Request{Image: img, Lang: lang})
	if err != nil {
		return "", err
	}
	logger.DebugLog("Recognised %d bytes with %s, language=%q corrected=%t", len(res.Text), res.Engine, res.Language, res.Corrected)
	return textnorm.NormalizePersian(res.Text), nil
}
