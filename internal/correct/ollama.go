package correct

import (
	"context"
	"strings"
	"time"

	"omniocr/internal/ollama"
)

const DefaultOllamaModel = "qwen2.5:3b"

type Ollama struct {
	client *ollama.Client
	model  string
}

func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	return &Ollama{client: ollama.NewClient(baseURL, timeout), model: model}
}

func (o *Ollama) Correct(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	out, err := o.client.Generate(ctx, ollama.GenerateRequest{
		Model:   o.model,
		Prompt:  prompt(text),
		Options: &ollama.GenerateOption{Temperature: 0.1},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
