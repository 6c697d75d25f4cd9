package correct

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"omniocr/internal/config"
)

func TestOllama_Correct(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.HasSuffix(req.Prompt, "من رفتم به مدررسه") {
			t.Errorf("prompt does not end with the input text: %q", req.Prompt)
		}
		w.Write([]byte(`{"response":"  من رفتم به مدرسه\n","done":true}`))
	}))
	defer srv.Close()
	c := NewOllama(srv.URL, "m", time.Second)

	// Act
	out, err := c.Correct(context.Background(), "من رفتم به مدررسه")

	// Assert
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if out != "من رفتم به مدرسه" {
		t.Errorf("unexpected correction %q", out)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one call, got %d", calls.Load())
	}
}

func TestOllama_EmptyInputSkipsBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for empty input")
	}))
	defer srv.Close()

	out, err := NewOllama(srv.URL, "m", time.Second).Correct(context.Background(), "  ")

	if err != nil || out != "" {
		t.Errorf("expected empty result, got %q, %v", out, err)
	}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		provider string
		wantErr  bool
		isNoop   bool
	}{
		{provider: "off", isNoop: true},
		{provider: "", isNoop: true},
		{provider: "ollama"},
		{provider: "gemini", wantErr: true}, // no api key
		{provider: "bert", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.provider, func(t *testing.T) {
			cfg := config.Default()
			cfg.Correction.Provider = tc.provider
			cfg.Gemini.APIKey = ""

			c, err := New(context.Background(), cfg)

			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := c.(Noop); ok != tc.isNoop {
				t.Errorf("noop = %v, expected %v", ok, tc.isNoop)
			}
		})
	}
}
