// Package service orchestrates a check run: validate the drawing, extract its
// text, run the engine and build the report. Every presentation layer (MCP,
// HTTP, the one-shot CLI) goes through it.
package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/a3tai/drawing-checker/internal/checker"
	"github.com/a3tai/drawing-checker/internal/pdf"
	"github.com/a3tai/drawing-checker/internal/report"
)

// ErrValidation marks errors caused by the request rather than the drawing:
// bad path, wrong extension, size limit, unknown category.
var ErrValidation = errors.New("validation failed")

// ServiceName is reported by the health and index endpoints
const ServiceName = "図面チェックAIシステム"

// CheckFileRequest names a drawing on disk and optionally restricts the categories checked
type CheckFileRequest struct {
	Path       string   `json:"path"`
	Categories []string `json:"categories,omitempty"`
}

// Service wires the extractor and the engine together. Both are built once at
// startup and shared by every request.
type Service struct {
	validator *pdf.Validator
	extractor pdf.Extractor
	engine    *checker.Engine
}

// New creates a service from its components
func New(validator *pdf.Validator, extractor pdf.Extractor, engine *checker.Engine) (*Service, error) {
	if validator == nil {
		return nil, fmt.Errorf("validator cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	return &Service{
		validator: validator,
		extractor: extractor,
		engine:    engine,
	}, nil
}

// CheckFile checks a drawing that must lie inside the configured directory
func (s *Service) CheckFile(req CheckFileRequest) (*report.Report, error) {
	if err := s.validator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("%w: security validation failed: %w", ErrValidation, err)
	}
	return s.check(req.Path, filepath.Base(req.Path), req.Categories)
}

// CheckLocalFile checks a drawing named directly by the operator, without
// directory confinement
func (s *Service) CheckLocalFile(req CheckFileRequest) (*report.Report, error) {
	return s.check(req.Path, filepath.Base(req.Path), req.Categories)
}

// CheckUpload stores an uploaded drawing in a temporary file, checks it and
// removes the file again on every path. The report names the upload, not the
// temporary file.
func (s *Service) CheckUpload(fileName string, content io.Reader, categories []string) (*report.Report, error) {
	if !pdf.IsPDFName(fileName) {
		return nil, fmt.Errorf("%w: PDFファイルのみ対応しています: %s", ErrValidation, fileName)
	}

	tmp, err := os.CreateTemp("", "drawing-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	limit := s.validator.MaxFileSize()
	written, err := io.Copy(tmp, io.LimitReader(content, limit+1))
	closeErr := tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to store upload: %w", closeErr)
	}
	if written > limit {
		return nil, fmt.Errorf("%w: file too large (max: %d bytes)", ErrValidation, limit)
	}

	r, err := s.check(tmpPath, fileName, categories)
	if err != nil {
		return nil, err
	}
	r.FilePath = fileName
	return r, nil
}

func (s *Service) check(path, name string, categories []string) (*report.Report, error) {
	engine, err := s.engine.Only(categories...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.validator.ValidateFile(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	doc, err := s.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract drawing text: %w", err)
	}

	findings := engine.CheckAll(doc)
	r := report.Build(doc, findings, engine.Summarize(findings))
	r.FileName = name
	return r, nil
}

// CheckItems lists what the engine verifies, per category
func (s *Service) CheckItems() []report.CategoryItems {
	return report.Catalog(s.engine.Checkers())
}

// FindDrawings lists drawings under directory (the configured one when empty)
func (s *Service) FindDrawings(directory, query string) ([]pdf.FileInfo, error) {
	files, err := s.validator.FindDrawings(directory, query, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return files, nil
}

// HealthStatus reports whether the service's components are ready
type HealthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Modules map[string]string `json:"modules"`
}

// Health reports component readiness. Components are injected at construction,
// so a constructed service is always ready.
func (s *Service) Health() HealthStatus {
	return HealthStatus{
		Status:  "ok",
		Service: ServiceName,
		Modules: map[string]string{
			"pdf_parser":   "ok (" + string(s.extractor.Library()) + ")",
			"check_engine": fmt.Sprintf("ok (%d checkers)", len(s.engine.Checkers())),
		},
	}
}

// ServerInfo describes the running server for MCP clients
type ServerInfo struct {
	ServerName        string                 `json:"server_name"`
	Version           string                 `json:"version"`
	DefaultDirectory  string                 `json:"default_directory"`
	MaxFileSize       int64                  `json:"max_file_size"`
	Extractor         pdf.LibraryType        `json:"extractor"`
	CheckItems        []report.CategoryItems `json:"check_items"`
	DirectoryContents []pdf.FileInfo         `json:"directory_contents"`
	UsageGuidance     string                 `json:"usage_guidance"`
}

// directoryScanLimit and directoryScanTimeout bound the listing in ServerInfo
const (
	directoryScanLimit   = 100
	directoryScanTimeout = 5 * time.Second
)

// ServerInfo gathers server details and a bounded listing of the drawing directory.
// A slow or failing directory scan yields an empty listing, never an error.
func (s *Service) ServerInfo(serverName, version string) *ServerInfo {
	contents := []pdf.FileInfo{}

	if dir := s.validator.Directory(); dir != "" {
		resultChan := make(chan []pdf.FileInfo, 1)
		go func() {
			files, err := s.validator.FindDrawings(dir, "", directoryScanLimit)
			if err != nil {
				files = nil
			}
			resultChan <- files
		}()

		select {
		case files := <-resultChan:
			if files != nil {
				contents = files
			}
		case <-time.After(directoryScanTimeout):
		}
	}

	return &ServerInfo{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  s.validator.Directory(),
		MaxFileSize:       s.validator.MaxFileSize(),
		Extractor:         s.extractor.Library(),
		CheckItems:        s.CheckItems(),
		DirectoryContents: contents,
		UsageGuidance:     usageGuidance(s.validator.MaxFileSize()),
	}
}

func usageGuidance(maxFileSize int64) string {
	return `Drawing Checker Usage Guide:

1. FIND DRAWINGS:
   - Use 'drawing_search_directory' to list PDF drawings in the configured directory

2. CHECK A DRAWING:
   - Use 'drawing_check_file' with the drawing's path
   - Pass 'categories' to run only some checks (e.g. "required" or "organization")
   - Ask for format "json" when the result is processed further

3. READ THE RESULT:
   - status FAIL: at least one required item is missing or out of range
   - NG findings must be fixed, 警告 findings should be reviewed
   - Each finding carries a suggestion describing the fix

4. KNOW WHAT IS CHECKED:
   - Use 'drawing_check_items' to list every item per category

IMPORTANT NOTES:
- Paths must lie inside the configured directory
- Files up to ` + fmt.Sprintf("%d", maxFileSize/(1024*1024)) + `MB are accepted
- Scanned drawings without a text layer cannot be checked; every item will be reported missing`
}

// IsValidation reports whether err was caused by the request
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
