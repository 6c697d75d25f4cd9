// Package correct holds the post-recognition text correction backends.
package correct

import (
	"context"
	"fmt"
	"strings"

	"omniocr/internal/config"
)

// Noop returns text unchanged.
type Noop struct{}

func (Noop) Correct(ctx context.Context, text string) (string, error) { return text, nil }

const instruction = `The following text was produced by OCR and may contain misrecognised characters, ` +
	`broken words and wrong letter forms. Fix only those recognition errors. Do not translate, ` +
	`summarise, reorder or add anything. Return ONLY the corrected text.`

func prompt(text string) string {
	return instruction + "\n\n" + text
}

type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// New builds the corrector named by cfg.Correction.Provider.
func New(ctx context.Context, cfg config.Config) (Corrector, error) {
	switch strings.ToLower(cfg.Correction.Provider) {
	case "", "off":
		return Noop{}, nil
	case "ollama":
		model := cfg.Correction.Model
		if model == "" {
			model = DefaultOllamaModel
		}
		return NewOllama(cfg.Ollama.URL, model, cfg.Ollama.Timeout.Std()), nil
	case "gemini":
		return NewGemini(ctx, cfg.Gemini.APIKey, cfg.Correction.Model)
	default:
		return nil, fmt.Errorf("unknown correction provider: %s", cfg.Correction.Provider)
	}
}
