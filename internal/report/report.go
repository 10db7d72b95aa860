// Package report turns a check run into the documents handed back to users:
// a colored text summary, JSON, YAML or an XLSX checklist.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/drawing-checker/internal/checker"
	"github.com/a3tai/drawing-checker/internal/pdf"
)

// Report is the outcome of checking one drawing
type Report struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	FilePath  string            `json:"file_path" yaml:"file_path"`
	FileName  string            `json:"file_name" yaml:"file_name"`
	CheckedAt time.Time         `json:"checked_at" yaml:"checked_at"`
	Library   pdf.LibraryType   `json:"library" yaml:"library"`
	Pages     int               `json:"pages" yaml:"pages"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Summary   checker.Summary   `json:"summary" yaml:"summary"`
	Findings  []checker.Finding `json:"results" yaml:"results"`
}

// Build assembles a report for doc. The findings slice is copied.
func Build(doc *pdf.Document, findings []checker.Finding, summary checker.Summary) *Report {
	results := make([]checker.Finding, len(findings))
	copy(results, findings)

	r := &Report{
		RunID:     uuid.NewString(),
		CheckedAt: time.Now().UTC(),
		Summary:   summary,
		Findings:  results,
	}
	if doc != nil {
		r.FilePath = doc.Path
		r.FileName = filepath.Base(doc.Path)
		r.Library = doc.Library
		r.Pages = doc.PageCount()
		r.Metadata = doc.Metadata
	}
	return r
}

// Issues returns the findings that need attention, i.e. everything except PASS
func (r *Report) Issues() []checker.Finding {
	issues := make([]checker.Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		if f.Status != checker.StatusPass {
			issues = append(issues, f)
		}
	}
	return issues
}

// TextTruncated reports whether the extractor dropped text past its size limit
func (r *Report) TextTruncated() bool {
	return r.Metadata[pdf.MetaTextTruncated] == "true"
}

// Format selects a report renderer
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatXLSX}
}

// ParseFormat validates a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format: %s", s)
}

// Write renders r to w in the requested format
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}
