package engine

import (
	"context"
	"fmt"
	stdimage "image"

	genai "google.golang.org/genai"

	ocrimage "omniocr/internal/image"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiEngine reads text with a Gemini multimodal model.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing GEMINI_API_KEY", ErrUnavailable)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiEngine{client: c, model: model}, nil
}

func (g *GeminiEngine) Name() string { return "gemini" }

func (g *GeminiEngine) Recognize(ctx context.Context, img stdimage.Image, lang string) (string, error) {
	data, err := ocrimage.EncodePNG(img)
	if err != nil {
		return "", err
	}
	content := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: readerPrompt(lang)},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}},
			},
		},
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, content, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return extractTranscription(res.Text()), nil
}

func (g *GeminiEngine) Close() error {
	return nil
}
