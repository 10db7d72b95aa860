package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"
	ModeCheck  = "check"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultExtractor   = "auto"
	DefaultFormat      = "text"

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. DRAWING_CHECK_MODE
	EnvPrefix = "DRAWING_CHECK"
)

var (
	validExtractors = []string{"auto", "ledongthuc", "pdfcpu"}
	validFormats    = []string{"text", "json", "yaml", "xlsx"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds all configuration for the drawing checker
type Config struct {
	// Server configuration
	Mode string // "stdio", "server" or "check"
	Host string
	Port int

	// Drawing configuration
	DrawingDirectory string
	MaxFileSize      int64 // Maximum PDF file size in bytes
	Extractor        string

	// Check configuration
	ExplicitPass bool     // report satisfied rules as PASS findings
	Categories   []string // restrict the check to these categories

	// One-shot check mode
	File   string
	Format string
	Output string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		DrawingDirectory: currentDir,
		MaxFileSize:      DefaultMaxFileSize,
		Extractor:        DefaultExtractor,
		Format:           DefaultFormat,
		Version:          "1.0.0",
		ServerName:       "drawing-checker",
		LogLevel:         DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// The drawing to check may be given as the first positional argument
	if cfg.File == "" && pflag.NArg() > 0 {
		cfg.File = pflag.Arg(0)
	}

	// Expand paths if needed
	if cfg.DrawingDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DrawingDirectory); err == nil {
			cfg.DrawingDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DrawingDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("extractor", cfg.Extractor)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("explicitpass", cfg.ExplicitPass)
	viper.SetDefault("categories", cfg.Categories)
	viper.SetDefault("file", cfg.File)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode,
		"Run mode: 'stdio' for MCP standard I/O, 'server' for the HTTP API, 'check' for a one-shot check")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DrawingDirectory, "Directory containing drawing PDFs")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("extractor", cfg.Extractor, "Text extractor: auto, ledongthuc or pdfcpu")
	pflag.String("format", cfg.Format, "Report format: text, json, yaml or xlsx (check mode only)")
	pflag.String("output", cfg.Output, "Write the report to this file instead of stdout (check mode only)")
	pflag.Bool("explicitpass", cfg.ExplicitPass, "Report satisfied rules as PASS findings")
	pflag.StringSlice("categories", cfg.Categories, "Only run these check categories (e.g. required,organization)")
	pflag.String("file", cfg.File, "Drawing to check (check mode only; also accepted as first argument)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"extractor", "format", "output", "explicitpass", "categories", "file",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nDrawing Checker - compliance checks for architectural drawing PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/drawings                    "+
			"# MCP stdio mode (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8000                  # HTTP API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=check plan.pdf                      # check one drawing\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=check --format=xlsx --output=r.xlsx plan.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s_MODE          Run mode\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_HOST          Server host\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_PORT          Server port\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_DIR           Drawing directory\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_LOGLEVEL      Log level\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_MAXFILESIZE   Maximum file size\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_EXTRACTOR     Text extractor\n", EnvPrefix)
		fmt.Fprintf(os.Stderr, "  %s_EXPLICITPASS  Report PASS findings\n", EnvPrefix)
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DrawingDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Extractor = strings.ToLower(viper.GetString("extractor"))
	cfg.Format = strings.ToLower(viper.GetString("format"))
	cfg.Output = viper.GetString("output")
	cfg.ExplicitPass = viper.GetBool("explicitpass")
	cfg.Categories = viper.GetStringSlice("categories")
	cfg.File = viper.GetString("file")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer && c.Mode != ModeCheck {
		return errors.New("mode must be one of 'stdio', 'server' or 'check'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if !contains(validExtractors, c.Extractor) {
		return fmt.Errorf("invalid extractor: %s (must be one of: %s)",
			c.Extractor, strings.Join(validExtractors, ", "))
	}

	if !contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format: %s (must be one of: %s)",
			c.Format, strings.Join(validFormats, ", "))
	}

	if c.Mode == ModeCheck {
		if c.File == "" {
			return errors.New("check mode requires a drawing file")
		}
		if c.Format == "xlsx" && c.Output == "" {
			return errors.New("xlsx format requires --output")
		}
		// The one-shot check reads the named file only; no directory is served
		return nil
	}

	// Validate drawing directory
	if c.DrawingDirectory == "" {
		return errors.New("drawing directory cannot be empty")
	}

	// Check if drawing directory exists, create if it doesn't
	if _, err := os.Stat(c.DrawingDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DrawingDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create drawing directory %s: %w", c.DrawingDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access drawing directory %s: %w", c.DrawingDirectory, err)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DrawingDirectory: %s, LogLevel: %s, "+
		"MaxFileSize: %d, Extractor: %s, ExplicitPass: %t, Format: %s}",
		c.Mode, c.Host, c.Port, c.DrawingDirectory, c.LogLevel,
		c.MaxFileSize, c.Extractor, c.ExplicitPass, c.Format)
}

// IsServerMode returns true if the HTTP API should be served
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the MCP server should run on stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsCheckMode returns true for a one-shot check of a single drawing
func (c *Config) IsCheckMode() bool {
	return c.Mode == ModeCheck
}
