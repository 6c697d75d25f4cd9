package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"omniocr/internal/config"
	"omniocr/internal/ocr/engine"
)

const (
	EngineTesseract = "tesseract"
	EngineOllama    = "ollama"
	EngineGemini    = "gemini"
	// EngineEasyOCR is kept as a tag for the neural reader.
	EngineEasyOCR = "easyocr"
)

// Factory builds an engine from configuration.
type Factory func(ctx context.Context, cfg config.Config) (Engine, error)

var (
	registryMu sync.RWMutex
	factories  = map[string]Factory{
		EngineTesseract: func(ctx context.Context, cfg config.Config) (Engine, error) {
			return engine.NewGosseractEngine(cfg.Tesseract, cfg.DefaultLanguages)
		},
		EngineOllama: func(ctx context.Context, cfg config.Config) (Engine, error) {
			return engine.NewOllamaEngine(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.Timeout.Std()), nil
		},
		EngineGemini: func(ctx context.Context, cfg config.Config) (Engine, error) {
			return engine.NewGeminiEngine(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		},
	}
	aliases = map[string]string{
		EngineEasyOCR: EngineOllama,
	}
)

// Register adds or replaces the factory for tag.
func Register(tag string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	t := normalizeTag(tag)
	delete(aliases, t)
	factories[t] = f
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Resolve maps a tag (or alias) to its registered name.
func Resolve(tag string) (string, bool) {
	t := normalizeTag(tag)
	if t == "" {
		t = EngineTesseract
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	if target, ok := aliases[t]; ok {
		t = target
	}
	_, ok := factories[t]
	return t, ok
}

// Tags lists the registered engine tags.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	tags := make([]string, 0, len(factories))
	for t := range factories {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// NewEngine builds the engine for tag. Unknown tags and engines whose
// backing library is missing fail with a config error; there is no
// fallback to another engine.
func NewEngine(ctx context.Context, engineType string, cfg config.Config) (Engine, error) {
	tag, ok := Resolve(engineType)
	if !ok {
		return nil, unknownEngine(engineType)
	}
	registryMu.RLock()
	f := factories[tag]
	registryMu.RUnlock()

	e, err := f(ctx, cfg)
	if err != nil {
		return nil, ConfigError("new engine "+tag, err)
	}
	return e, nil
}

func unknownEngine(tag string) error {
	return ConfigError("new engine", fmt.Errorf("unknown engine type: %s (supported: %s)", tag, strings.Join(Tags(), ", ")))
}
