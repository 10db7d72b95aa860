package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/a3tai/drawing-checker/internal/checker"
	"github.com/a3tai/drawing-checker/internal/config"
	"github.com/a3tai/drawing-checker/internal/pdf"
	"github.com/a3tai/drawing-checker/internal/service"
)

const testVersion = "1.2.3"

func init() {
	color.NoColor = true
}

type stubExtractor struct {
	text string
}

func (s stubExtractor) Extract(path string) (*pdf.Document, error) {
	return &pdf.Document{Path: path, Library: pdf.LibraryLedongthuc, Pages: []pdf.Page{{Number: 1, Text: s.text}}}, nil
}

func (s stubExtractor) Library() pdf.LibraryType { return pdf.LibraryLedongthuc }

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = testVersion
	buildTime = "2024-09-11_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)
	output := buf.String()

	expectedStrings := []string{
		"Drawing Checker",
		"Version: " + testVersion,
		"Build Time: 2024-09-11_10:30:00",
		"Git Commit: abc123",
		"Built with: go",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	tests := []struct {
		name      string
		cfg       *config.Config
		wantQuiet bool
		wantFlags int
	}{
		{name: "stdio", cfg: &config.Config{Mode: "stdio", LogLevel: "info"}, wantQuiet: true},
		{name: "stdio debug", cfg: &config.Config{Mode: "stdio", LogLevel: "debug"}},
		{name: "server", cfg: &config.Config{Mode: "server", LogLevel: "info"}, wantFlags: log.LstdFlags | log.Lshortfile},
		{name: "check", cfg: &config.Config{Mode: "check", LogLevel: "info"}, wantFlags: log.LstdFlags | log.Lshortfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log.SetFlags(log.LstdFlags)
			setupLogging(tt.cfg)

			if quiet := log.Writer() != os.Stderr; quiet != tt.wantQuiet {
				t.Errorf("setupLogging() quiet = %v, want %v", quiet, tt.wantQuiet)
			}
			if tt.wantFlags != 0 && log.Flags() != tt.wantFlags {
				t.Errorf("setupLogging() flags = %d, want %d", log.Flags(), tt.wantFlags)
			}
		})
	}
}

func TestNewService(t *testing.T) {
	cfg := &config.Config{Extractor: "auto", MaxFileSize: 1024, DrawingDirectory: t.TempDir()}
	if _, err := newService(cfg); err != nil {
		t.Fatalf("newService() unexpected error: %v", err)
	}

	cfg.Extractor = "mupdf"
	if _, err := newService(cfg); err == nil {
		t.Error("newService() should reject an unknown extractor")
	}
}

func newCheckFixture(t *testing.T, text string) (*service.Service, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "A-101.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc, err := service.New(pdf.NewValidator(1024, ""), stubExtractor{text: text}, checker.NewEngine())
	if err != nil {
		t.Fatalf("service.New() error = %v", err)
	}
	return svc, path
}

func TestRunCheckMode(t *testing.T) {
	const compliant = `図面番号: A-101 図面名: 1階平面図 縮尺: 1/100 作成日: 2024/09/11 作成者: 山田
外断熱 第一種換気 釘ピッチ: 120mm 隠蔽部分 写真記録`

	t.Run("passing drawing exits 0", func(t *testing.T) {
		svc, path := newCheckFixture(t, compliant)
		var stdout bytes.Buffer

		code := runCheckMode(&config.Config{Mode: "check", File: path, Format: "text"}, svc, &stdout)
		if code != 0 {
			t.Errorf("runCheckMode() = %d, want 0\n%s", code, stdout.String())
		}
		if !strings.Contains(stdout.String(), "指摘事項はありませんでした。") {
			t.Errorf("text report missing no-issues line:\n%s", stdout.String())
		}
	})

	t.Run("failing drawing exits 1", func(t *testing.T) {
		svc, path := newCheckFixture(t, "")
		var stdout bytes.Buffer

		code := runCheckMode(&config.Config{Mode: "check", File: path, Format: "json"}, svc, &stdout)
		if code != 1 {
			t.Errorf("runCheckMode() = %d, want 1", code)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
			t.Fatalf("json report did not decode: %v", err)
		}
		if decoded["file_name"] != "A-101.pdf" {
			t.Errorf("file_name = %v, want A-101.pdf", decoded["file_name"])
		}
	})

	t.Run("category filter", func(t *testing.T) {
		svc, path := newCheckFixture(t, compliant)
		var stdout bytes.Buffer

		cfg := &config.Config{Mode: "check", File: path, Format: "yaml", Categories: []string{"organization"}}
		if code := runCheckMode(cfg, svc, &stdout); code != 0 {
			t.Errorf("runCheckMode() = %d, want 0", code)
		}
		if !strings.Contains(stdout.String(), "file_name: A-101.pdf") {
			t.Errorf("yaml report missing file name:\n%s", stdout.String())
		}
	})

	t.Run("xlsx to output file", func(t *testing.T) {
		svc, path := newCheckFixture(t, compliant)
		output := filepath.Join(t.TempDir(), "report.xlsx")
		var stdout bytes.Buffer

		code := runCheckMode(&config.Config{Mode: "check", File: path, Format: "xlsx", Output: output}, svc, &stdout)
		if code != 0 {
			t.Fatalf("runCheckMode() = %d, want 0", code)
		}
		info, err := os.Stat(output)
		if err != nil || info.Size() == 0 {
			t.Fatalf("xlsx report was not written: %v", err)
		}
		if !strings.Contains(stdout.String(), "Report written to "+output) {
			t.Errorf("stdout = %q, want a pointer to the report", stdout.String())
		}
	})

	t.Run("missing drawing exits 1", func(t *testing.T) {
		svc, _ := newCheckFixture(t, compliant)
		var stdout bytes.Buffer

		code := runCheckMode(&config.Config{Mode: "check", File: "/nonexistent/plan.pdf", Format: "text"}, svc, &stdout)
		if code != 1 {
			t.Errorf("runCheckMode() = %d, want 1", code)
		}
		if stdout.Len() != 0 {
			t.Errorf("nothing should be written on failure, got %q", stdout.String())
		}
	})

	t.Run("unknown format exits 1", func(t *testing.T) {
		svc, path := newCheckFixture(t, compliant)
		if code := runCheckMode(&config.Config{Mode: "check", File: path, Format: "csv"}, svc, &bytes.Buffer{}); code != 1 {
			t.Errorf("runCheckMode() = %d, want 1", code)
		}
	})
}
