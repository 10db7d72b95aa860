package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"

	"github.com/a3tai/drawing-checker/internal/checker"
	"github.com/a3tai/drawing-checker/internal/config"
	"github.com/a3tai/drawing-checker/internal/httpapi"
	"github.com/a3tai/drawing-checker/internal/mcp"
	"github.com/a3tai/drawing-checker/internal/pdf"
	"github.com/a3tai/drawing-checker/internal/report"
	"github.com/a3tai/drawing-checker/internal/service"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the mode
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsStdioMode() {
		// stdout belongs to the MCP protocol; stay quiet unless debugging
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
		return
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// newService builds the extractor and engine once and wires them into a service
func newService(cfg *config.Config) (*service.Service, error) {
	extractor, err := pdf.NewExtractor(pdf.LibraryType(cfg.Extractor), cfg.IsDebug())
	if err != nil {
		return nil, err
	}

	engine := checker.NewEngine(checker.WithExplicitPass(cfg.ExplicitPass))
	validator := pdf.NewValidator(cfg.MaxFileSize, cfg.DrawingDirectory)

	return service.New(validator, extractor, engine)
}

// runServerMode serves the HTTP API until SIGINT or SIGTERM
func runServerMode(cfg *config.Config, svc *service.Service) error {
	api, err := httpapi.NewServer(svc, cfg.Version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.ListenAndServe(ctx, cfg.Address()); err != nil {
		return err
	}

	log.Println("Server stopped successfully")
	return nil
}

// runStdioMode serves MCP until the parent process closes stdin
func runStdioMode(cfg *config.Config, svc *service.Service) error {
	server, err := mcp.NewServer(cfg, svc)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(context.Background())
}

// runCheckMode checks a single drawing and writes the report to stdout or the
// configured output file. It returns the process exit code.
func runCheckMode(cfg *config.Config, svc *service.Service, stdout io.Writer) int {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	r, err := svc.CheckLocalFile(service.CheckFileRequest{Path: cfg.File, Categories: cfg.Categories})
	if err != nil {
		log.Printf("Check failed: %v", err)
		return 1
	}

	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.Printf("Failed to create output file: %v", err)
			return 1
		}
		defer f.Close()
		color.NoColor = true
		out = f
	}

	if err := report.Write(out, r, format); err != nil {
		log.Printf("Failed to write report: %v", err)
		return 1
	}

	if cfg.Output != "" {
		fmt.Fprintf(stdout, "Report written to %s (%s)\n", cfg.Output, r.Summary.Overall)
	}

	if !r.Summary.Passed() {
		return 1
	}
	return 0
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	svc, err := newService(cfg)
	if err != nil {
		log.Fatalf("Failed to create check service: %v", err)
	}

	switch {
	case cfg.IsCheckMode():
		os.Exit(runCheckMode(cfg, svc, os.Stdout))
	case cfg.IsServerMode():
		if err := runServerMode(cfg, svc); err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	default:
		if err := runStdioMode(cfg, svc); err != nil {
			if cfg.IsDebug() {
				log.Printf("Server error: %v", err)
			}
			os.Exit(1)
		}
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Drawing Checker\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
