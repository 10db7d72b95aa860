// Package httpapi serves the drawing check over HTTP for browser and script clients.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/a3tai/drawing-checker/internal/checker"
	"github.com/a3tai/drawing-checker/internal/pdf"
	"github.com/a3tai/drawing-checker/internal/report"
	"github.com/a3tai/drawing-checker/internal/service"
)

// uploadField is the multipart field carrying the drawing
const uploadField = "file"

// multipartMemory is how much of an upload is buffered in memory before spilling to disk
const multipartMemory = 8 << 20

const shutdownTimeout = 10 * time.Second

// Server exposes a check service through a chi router
type Server struct {
	service *service.Service
	version string
	router  *chi.Mux
}

// NewServer creates the HTTP API for svc
func NewServer(svc *service.Service, version string) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	s := &Server{service: svc, version: version}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(allowAnyOrigin)

	r.Get("/", s.handleIndex)
	r.Get("/api/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/check-items", s.handleCheckItems)
		r.Post("/check", s.handleCheck)
	})

	return r
}

// Handler returns the router, for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Logger(s.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("HTTP API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

// CheckResponse is the body of a successful POST /api/v1/check
type CheckResponse struct {
	FileName string            `json:"file_name"`
	Status   string            `json:"status"`
	RunID    string            `json:"run_id"`
	Pages    int               `json:"pages"`
	Summary  checker.Summary   `json:"summary"`
	Results  []checker.Finding `json:"results"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": service.ServiceName + " API",
		"version": s.version,
		"endpoints": map[string]string{
			"health":      "/api/health",
			"check":       "/api/v1/check",
			"check_items": "/api/v1/check-items",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Health())
}

func (s *Server) handleCheckItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]report.CategoryItems{
		"categories": s.service.CheckItems(),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %q upload", uploadField))
		return
	}
	defer file.Close()

	categories := splitCategories(r.MultipartForm.Value["check_categories"])

	rep, err := s.service.CheckUpload(header.Filename, file, categories)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("check failed for %s: %v", header.Filename, err)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CheckResponse{
		FileName: rep.FileName,
		Status:   "completed",
		RunID:    rep.RunID,
		Pages:    rep.Pages,
		Summary:  rep.Summary,
		Results:  rep.Findings,
	})
}

// splitCategories accepts repeated fields as well as comma-separated lists
func splitCategories(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func statusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case pdf.IsExtractionError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// allowAnyOrigin lets browser front ends on other origins call the API
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
