package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/drawing-checker/internal/config"
	"github.com/a3tai/drawing-checker/internal/descriptions"
	"github.com/a3tai/drawing-checker/internal/report"
	"github.com/a3tai/drawing-checker/internal/service"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *service.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *service.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   svc,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	checkFileTool := mcp.NewTool(
		"drawing_check_file",
		mcp.WithDescription(descriptions.GetToolDescription("drawing_check_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the drawing PDF"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: text (default), json or yaml"),
		),
		mcp.WithString("categories",
			mcp.Description("Comma-separated categories to check, e.g. required,organization (default: all)"),
		),
	)
	s.mcpServer.AddTool(checkFileTool, s.handleCheckFile)

	checkItemsTool := mcp.NewTool(
		"drawing_check_items",
		mcp.WithDescription(descriptions.GetToolDescription("drawing_check_items")),
	)
	s.mcpServer.AddTool(checkItemsTool, s.handleCheckItems)

	searchTool := mcp.NewTool(
		"drawing_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("drawing_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional part of the file name to match"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDirectory)

	serverInfoTool := mcp.NewTool(
		"drawing_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("drawing_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleCheckFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	format := report.FormatText
	if f, ok := args["format"].(string); ok && f != "" {
		format, err = report.ParseFormat(f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if format == report.FormatXLSX {
			return mcp.NewToolResultError("xlsx is not available over MCP; use text, json or yaml"), nil
		}
	}

	var categories []string
	if c, ok := args["categories"].(string); ok {
		categories = splitList(c)
	}

	r, err := s.service.CheckFile(service.CheckFileRequest{Path: path, Categories: categories})
	if err != nil {
		if s.config.IsDebug() {
			log.Printf("check failed for %s: %v", path, err)
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	if err := report.Write(&sb, r, format); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleCheckItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatCheckItems(s.service.CheckItems())), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.DrawingDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	files, err := s.service.FindDrawings(directory, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		text := fmt.Sprintf("No drawings found in directory: %s", directory)
		if query != "" {
			text += fmt.Sprintf(" (searched for: %s)", query)
		}
		return mcp.NewToolResultText(text), nil
	}

	text := fmt.Sprintf("Found %d drawing(s) in directory: %s\n", len(files), directory)
	if query != "" {
		text += fmt.Sprintf("Search query: %s\n", query)
	}
	text += "\nFiles:\n"
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.service.ServerInfo(s.config.ServerName, s.config.Version)
	return mcp.NewToolResultText(s.formatServerInfo(info)), nil
}

// Formatting methods
func formatCheckItems(catalog []report.CategoryItems) string {
	var sb strings.Builder
	sb.WriteString("Check items\n")
	for _, category := range catalog {
		fmt.Fprintf(&sb, "\n【%s】\n", category.Name)
		for i, item := range category.Items {
			fmt.Fprintf(&sb, "  %d. %s (%s)\n", i+1, item.Name, item.Importance.Label())
		}
	}
	return sb.String()
}

func (s *Server) formatServerInfo(info *service.ServerInfo) string {
	text := fmt.Sprintf("📋 %s v%s\n\n", info.ServerName, info.Version)
	text += fmt.Sprintf("📁 Drawing Directory: %s\n", info.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d bytes\n", info.MaxFileSize)
	text += fmt.Sprintf("🔧 Extractor: %s\n\n", info.Extractor)

	if len(info.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d drawings):\n", len(info.DirectoryContents))
		for _, file := range info.DirectoryContents {
			text += fmt.Sprintf("  • %s (%d bytes, %s)\n", file.Name, file.Size, file.ModifiedTime)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No drawings found in default directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("  • %s\n", name)
	}

	text += "\n" + formatCheckItems(info.CheckItems)
	text += "\n" + info.UsageGuidance

	return text
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Run serves MCP over standard I/O until the client disconnects
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting drawing checker MCP server in stdio mode")
		log.Printf("Drawing directory: %s", s.config.DrawingDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
