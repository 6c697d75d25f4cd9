package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that reads from JSON as "30s" or as seconds.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parsing duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds: %w", err)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

type Config struct {
	Engine string `json:"engine"`
	Lang   string `json:"lang"`
	// Languages used when the hint is "auto" or empty.
	DefaultLanguages string `json:"default_languages"`
	Workers          int    `json:"workers"`
	Preprocess       bool   `json:"preprocess"`
	// Binarization threshold applied after preprocessing; 0 disables it.
	Threshold uint8 `json:"threshold"`
	Debug     bool  `json:"debug"`

	Tesseract  TesseractConfig  `json:"tesseract"`
	Ollama     OllamaConfig     `json:"ollama"`
	Gemini     GeminiConfig     `json:"gemini"`
	Correction CorrectionConfig `json:"correction"`
	Detection  DetectionConfig  `json:"detection"`
	PDF        PDFConfig        `json:"pdf"`
	Server     ServerConfig     `json:"server"`
}

type TesseractConfig struct {
	PageSegMode    int    `json:"page_seg_mode"`
	Whitelist      string `json:"whitelist"`
	TessdataPrefix string `json:"tessdata_prefix"`
}

type OllamaConfig struct {
	URL     string   `json:"url"`
	Model   string   `json:"model"`
	Timeout Duration `json:"timeout"`
}

type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

type CorrectionConfig struct {
	// Provider is one of off, ollama, gemini.
	Provider string `json:"provider"`
	// Language is the detected language that triggers correction.
	Language string `json:"language"`
	Model    string `json:"model"`
}

type DetectionConfig struct {
	Languages []string `json:"languages"`
}

type PDFConfig struct {
	DPI      int    `json:"dpi"`
	Pdftoppm string `json:"pdftoppm"`
}

type ServerConfig struct {
	Addr        string   `json:"addr"`
	MaxUploadMB int64    `json:"max_upload_mb"`
	ReadTimeout Duration `json:"read_timeout"`
}

const (
	defaultEngine    = "tesseract"
	defaultLang      = "auto"
	defaultLanguages = "eng+fas"
	defaultOllamaURL = "http://localhost:11434"
	defaultModel     = "llama3.2-vision"
	defaultGemini    = "gemini-2.5-flash"
	defaultPSM       = 3
)

func Default() Config {
	return Config{
		Engine:           defaultEngine,
		Lang:             defaultLang,
		DefaultLanguages: defaultLanguages,
		Workers:          runtime.NumCPU(),
		Preprocess:       true,
		Tesseract: TesseractConfig{
			PageSegMode: defaultPSM,
		},
		Ollama: OllamaConfig{
			URL:     defaultOllamaURL,
			Model:   defaultModel,
			Timeout: Duration(2 * time.Minute),
		},
		Gemini: GeminiConfig{
			Model: defaultGemini,
		},
		Correction: CorrectionConfig{
			Provider: "off",
			Language: "fa",
		},
		Detection: DetectionConfig{
			Languages: []string{"en", "fa", "ar", "ja"},
		},
		PDF: PDFConfig{
			DPI:      300,
			Pdftoppm: "pdftoppm",
		},
		Server: ServerConfig{
			Addr:        ":8000",
			MaxUploadMB: 32,
			ReadTimeout: Duration(time.Minute),
		},
	}
}

// Load builds the configuration from defaults, the optional JSON file at
// path, and environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("OMNIOCR_ENGINE", &cfg.Engine)
	str("OMNIOCR_LANG", &cfg.Lang)
	str("OMNIOCR_ADDR", &cfg.Server.Addr)
	str("OMNIOCR_CORRECTION", &cfg.Correction.Provider)
	str("OLLAMA_HOST", &cfg.Ollama.URL)
	str("OLLAMA_MODEL", &cfg.Ollama.Model)
	str("GOOGLE_API_KEY", &cfg.Gemini.APIKey)
	str("GEMINI_API_KEY", &cfg.Gemini.APIKey)
	str("TESSDATA_PREFIX", &cfg.Tesseract.TessdataPrefix)

	if v, ok := lookup("OMNIOCR_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OMNIOCR_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v, ok := lookup("DEBUG"); ok && v == "1" {
		cfg.Debug = true
	}
	if cfg.Ollama.URL != "" && !strings.Contains(cfg.Ollama.URL, "://") {
		cfg.Ollama.URL = "http://" + cfg.Ollama.URL
	}
	return nil
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch strings.ToLower(c.Correction.Provider) {
	case "", "off", "ollama", "gemini":
	default:
		return fmt.Errorf("unknown correction provider: %s", c.Correction.Provider)
	}
	if c.PDF.DPI < 0 {
		return fmt.Errorf("pdf dpi must not be negative")
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server max_upload_mb must not be negative")
	}
	return nil
}
