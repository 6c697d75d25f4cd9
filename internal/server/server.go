package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"omniocr/internal/config"
	"omniocr/internal/image"
	"omniocr/internal/logger"
	"omniocr/internal/ocr"
	"omniocr/internal/textnorm"
)

const shutdownTimeout = 10 * time.Second

// Engines hands out the façade for an engine tag; *ocr.Engines implements it.
type Engines interface {
	Get(ctx context.Context, tag string) (*ocr.Facade, error)
}

type Server struct {
	cfg       config.Config
	engines   Engines
	processor *image.ImageProcessor
	maxUpload int64
}

func New(cfg config.Config, engines Engines) *Server {
	return &Server{
		cfg:       cfg,
		engines:   engines,
		processor: image.NewImageProcessor(cfg.Threshold),
		maxUpload: cfg.Server.MaxUploadMB << 20,
	}
}

type ocrResponse struct {
	Engine   string `json:"engine"`
	Lang     string `json:"lang"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /ocr/image", s.handleImage)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "OmniOCR API is running"})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	tag := formValue(r, "engine", s.cfg.Engine)
	lang := formValue(r, "lang", s.cfg.Lang)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()
	logger.DebugLog("[server]: %s (%d bytes) engine=%s lang=%s", header.Filename, header.Size, tag, lang)

	facade, err := s.engines.Get(r.Context(), tag)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	img, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, ocr.DecodeError("decode upload", err))
		return
	}
	if s.cfg.Preprocess {
		img = s.processor.EnhanceQuality(img)
	}

	res, err := facade.Recognize(r.Context(), ocr.Request{Image: img, Lang: lang})
	if err != nil {
		logger.Warnf("recognition of %s with %s failed: %v", header.Filename, tag, err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{
		Engine:   tag,
		Lang:     lang,
		Text:     textnorm.NormalizePersian(res.Text),
		Language: res.Language,
	})
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("OmniOCR API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Infof("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

func statusFor(err error) int {
	switch ocr.KindOf(err) {
	case ocr.KindConfig:
		return http.StatusBadRequest
	case ocr.KindDecode:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("[server]: encoding response: %v", err)
	}
}
