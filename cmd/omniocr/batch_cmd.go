package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"omniocr/internal/notify"
	"omniocr/internal/pipeline"
)

func batchCmd(a *app) *cobra.Command {
	var engineTag string
	var lang string
	var workers int
	var manifest bool
	var notifyDone bool

	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Recognise every image and PDF in a directory, one text file each",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("engine") {
				engineTag = a.cfg.Engine
			}
			if !cmd.Flags().Changed("lang") {
				lang = a.cfg.Lang
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}
			if err := checkEngine(engineTag); err != nil {
				return err
			}

			ctx := cmd.Context()
			n := notify.New(notifyDone)
			engines, err := a.engines(ctx)
			if err != nil {
				return err
			}
			defer engines.Close()

			facade, err := engines.Get(ctx, engineTag)
			if err != nil {
				n.Error(err.Error())
				return err
			}

			job := pipeline.Job{
				InputDir:   args[0],
				OutputDir:  args[1],
				Lang:       lang,
				Workers:    workers,
				Preprocess: a.cfg.Preprocess,
				Threshold:  a.cfg.Threshold,
				Manifest:   manifest,
			}
			summary, err := pipeline.Run(ctx, pipeline.Clients{Recognizer: facade, Pages: a.pages()}, job)
			if err != nil {
				n.Error(err.Error())
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processing complete! Results saved to: %s\n", job.OutputDir)
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d files (%d failed, %d skipped)\n", summary.Outputs(), summary.Failed, summary.Skipped)
			n.BatchDone(job.InputDir, summary.Succeeded, summary.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&engineTag, "engine", "tesseract", "OCR engine to use (tesseract, ollama, gemini, easyocr)")
	cmd.Flags().StringVar(&lang, "lang", "auto", "language hint (e.g. fa, en, eng+fas, auto)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent files (default: number of CPUs)")
	cmd.Flags().BoolVar(&manifest, "manifest", false, "write manifest.csv with one row per file")
	cmd.Flags().BoolVar(&notifyDone, "notify", false, "show a desktop notification when the batch finishes")
	return cmd
}
