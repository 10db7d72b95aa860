package descriptions

import "sort"

// Tool descriptions with practical examples, shown to MCP clients

const (
	DrawingCheckFileDescription = `Check an architectural drawing PDF against the mandatory title-block items and the builder's construction standard.

**When to use:** Before a drawing is issued for approval or construction, or when reviewing drawings received from a designer.

**Why it's useful:** Finds missing drawing numbers, names, scales, dates and authors, and verifies the organization's own rules (exterior insulation, first-class ventilation, nail pitch of at most 150mm, concealed-work method).

**Examples:**
• Review a floor plan: "Check /drawings/A-101.pdf and list what must be fixed"
• Only the title block: "Check S-001.pdf for the required categories only"
• Machine-readable result: "Check A-201.pdf and return JSON"

**Result:** A summary (total, OK, NG, 警告, required NG, overall status) followed by each finding with its importance, message and suggested fix. The overall status is FAIL exactly when a required item failed.

**Best practices:** Use drawing_search_directory to find drawings first. Scanned drawings without a text layer report every item as missing.`

	DrawingCheckItemsDescription = `List every item the checker verifies, grouped by category, with its importance.

**When to use:** To explain what a check covers, or to choose categories for drawing_check_file.

**Examples:**
• "What does the drawing check look for?"
• "Which items are required and which are only recommended?"`

	DrawingSearchDirectoryDescription = `Find drawing PDFs in the configured directory, newest first.

**When to use:** Before checking, to discover which drawings are available or to locate a drawing by part of its file name.

**Examples:**
• List everything: "Which drawings are in the project folder?"
• Narrow down: "Find the drawings whose name contains A-1"

**Best practices:** Paths outside the configured directory are rejected.`

	DrawingServerInfoDescription = `Get server information: version, drawing directory and its contents, accepted file size, the extractor in use, the check items and usage guidance.

**When to use:** At the start of a session to learn what the server can do and which drawings it can see.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"drawing_check_file":       DrawingCheckFileDescription,
	"drawing_check_items":      DrawingCheckItemsDescription,
	"drawing_search_directory": DrawingSearchDirectoryDescription,
	"drawing_server_info":      DrawingServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all described tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
