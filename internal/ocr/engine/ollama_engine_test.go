package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func TestExtractTranscription(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "plain text", expected: "plain text"},
		{input: "```\nfenced\ntext\n```", expected: "fenced\ntext"},
		{input: "```text\nسلام دنیا\n```", expected: "سلام دنیا"},
		{input: "Here is the transcribed text:\nline one\nline two", expected: "line one\nline two"},
		{input: "   ", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("input=%q", tc.input), func(t *testing.T) {
			// act
			actual := extractTranscription(tc.input)

			// assert
			if actual != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestOllamaEngine_Recognize(t *testing.T) {
	// Arrange
	var shows atomic.Int32
	var prompt string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/show":
			shows.Add(1)
			w.Write([]byte(`{}`))
		case "/api/generate":
			var req struct {
				Prompt string   `json:"prompt"`
				Images []string `json:"images"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Images) != 1 || req.Images[0] == "" {
				t.Errorf("expected one encoded image, got %d", len(req.Images))
			}
			mu.Lock()
			prompt = req.Prompt
			mu.Unlock()
			w.Write([]byte(`{"response":"` + "```\\nHello\\n```" + `","done":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	e := NewOllamaEngine(srv.URL, "vision", time.Second)
	img := imaging.New(10, 10, color.White)

	// Act
	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text, err := e.Recognize(context.Background(), img, "fa")
			if err != nil {
				t.Errorf("recognize: %v", err)
			}
			results[i] = text
		}(i)
	}
	wg.Wait()

	// Assert
	for _, r := range results {
		if r != "Hello" {
			t.Errorf("expected Hello, got %q", r)
		}
	}
	if shows.Load() != 1 {
		t.Errorf("expected one model check, got %d", shows.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(prompt, "Persian") {
		t.Errorf("expected language name in prompt, got %q", prompt)
	}
}

func TestOllamaEngine_MissingModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()
	e := NewOllamaEngine(srv.URL, "absent", time.Second)

	_, err := e.Recognize(context.Background(), imaging.New(4, 4, color.White), "auto")

	if err == nil || !strings.Contains(err.Error(), "absent") {
		t.Errorf("expected missing model error, got %v", err)
	}
}

func TestOllamaEngine_ModelCheckRetriedAfterFailure(t *testing.T) {
	// Arrange
	var shows atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/show":
			shows.Add(1)
			w.Write([]byte(`{}`))
		case "/api/generate":
			w.Write([]byte(`{"response":"text","done":true}`))
		}
	}))
	defer srv.Close()
	e := NewOllamaEngine(srv.URL, "vision", time.Second)
	img := imaging.New(4, 4, color.White)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, firstErr := e.Recognize(cancelled, img, "auto")
	text, err := e.Recognize(context.Background(), img, "auto")
	_, _ = e.Recognize(context.Background(), img, "auto")

	// Assert
	if firstErr == nil {
		t.Fatal("expected the cancelled call to fail")
	}
	if err != nil || text != "text" {
		t.Fatalf("expected recovery after a cancelled first call, got %q, %v", text, err)
	}
	if shows.Load() != 1 {
		t.Errorf("expected the model check to be remembered once it passed, got %d checks", shows.Load())
	}
}
