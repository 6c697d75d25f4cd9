package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	stdimage "image"
	"strings"
	"sync"
	"time"

	ocrimage "omniocr/internal/image"
	"omniocr/internal/logger"
	"omniocr/internal/ollama"
)

const defaultModel = "llama3.2-vision"

// OllamaEngine reads text with a vision model served by Ollama.
type OllamaEngine struct {
	client *ollama.Client
	model  string

	mu    sync.Mutex
	ready bool
}

func NewOllamaEngine(baseURL, model string, timeout time.Duration) *OllamaEngine {
	if model == "" {
		model = defaultModel
	}
	return &OllamaEngine{
		client: ollama.NewClient(baseURL, timeout),
		model:  model,
	}
}

func (o *OllamaEngine) Name() string { return "ollama" }

// ensureModel verifies the model until one check succeeds; concurrent
// callers wait on the same check. A failed check is retried on the next call.
func (o *OllamaEngine) ensureModel(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ready {
		return nil
	}
	logger.DebugLog("[ollama]: checking model %s", o.model)
	if err := o.client.Show(ctx, o.model); err != nil {
		return err
	}
	o.ready = true
	return nil
}

func (o *OllamaEngine) Recognize(ctx context.Context, img stdimage.Image, lang string) (string, error) {
	if err := o.ensureModel(ctx); err != nil {
		return "", fmt.Errorf("preparing model %s: %w", o.model, err)
	}

	imageData, err := ocrimage.EncodePNG(img)
	if err != nil {
		return "", err
	}

	response, err := o.client.Generate(ctx, ollama.GenerateRequest{
		Model:   o.model,
		Prompt:  readerPrompt(lang),
		Images:  []string{base64.StdEncoding.EncodeToString(imageData)},
		Options: &ollama.GenerateOption{Temperature: 0},
	})
	if err != nil {
		return "", err
	}
	return extractTranscription(response), nil
}

func (o *OllamaEngine) Close() error {
	return nil
}

// extractTranscription strips the code fences and lead-in lines vision
// models like to wrap around a transcription.
func extractTranscription(input string) string {
	text := strings.TrimSpace(input)

	if strings.HasPrefix(text, "```") {
		if nl := strings.Index(text, "\n"); nl != -1 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	if first, rest, ok := strings.Cut(text, "\n"); ok {
		lower := strings.ToLower(strings.TrimSpace(first))
		if strings.HasPrefix(lower, "here is") || strings.HasPrefix(lower, "here's") {
			text = rest
		}
	}
	return strings.TrimSpace(text)
}
