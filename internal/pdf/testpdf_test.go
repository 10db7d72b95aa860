package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTestPDF assembles a minimal PDF with one Helvetica page per entry in
// pages. Each entry is shown as a single text line. title goes into the
// document information dictionary when non-empty.
func buildTestPDF(title string, pages ...string) []byte {
	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")

	numPages := len(pages)
	// 1 catalog, 2 pages, 3 font, then page/content pairs, then info
	offsets := make([]int, 0, 3+2*numPages+1)

	offsets = append(offsets, sb.Len())
	sb.WriteString("1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n")

	kids := make([]string, numPages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	offsets = append(offsets, sb.Len())
	sb.WriteString(fmt.Sprintf("2 0 obj\n<<\n/Type /Pages\n/Kids [%s]\n/Count %d\n>>\nendobj\n",
		strings.Join(kids, " "), numPages))

	offsets = append(offsets, sb.Len())
	sb.WriteString("3 0 obj\n<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>\nendobj\n")

	for i, text := range pages {
		pageObj := 4 + 2*i
		contentObj := pageObj + 1

		offsets = append(offsets, sb.Len())
		sb.WriteString(fmt.Sprintf("%d 0 obj\n<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents %d 0 R\n/Resources <<\n/Font <<\n/F1 3 0 R\n>>\n>>\n>>\nendobj\n",
			pageObj, contentObj))

		content := fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(%s) Tj\nET\n", text)
		offsets = append(offsets, sb.Len())
		sb.WriteString(fmt.Sprintf("%d 0 obj\n<<\n/Length %d\n>>\nstream\n%sendstream\nendobj\n",
			contentObj, len(content), content))
	}

	infoObj := 0
	if title != "" {
		infoObj = 4 + 2*numPages
		offsets = append(offsets, sb.Len())
		sb.WriteString(fmt.Sprintf("%d 0 obj\n<<\n/Title (%s)\n/Creator (drawing-checker tests)\n>>\nendobj\n",
			infoObj, title))
	}

	size := len(offsets) + 1
	xrefStart := sb.Len()
	sb.WriteString(fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", size))
	for _, off := range offsets {
		sb.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}

	sb.WriteString(fmt.Sprintf("trailer\n<<\n/Size %d\n/Root 1 0 R\n", size))
	if infoObj != 0 {
		sb.WriteString(fmt.Sprintf("/Info %d 0 R\n", infoObj))
	}
	sb.WriteString(">>\nstartxref\n")
	sb.WriteString(fmt.Sprintf("%d\n", xrefStart))
	sb.WriteString("%%EOF")

	return []byte(sb.String())
}

// writeTestFile writes data to dir/name and returns the full path
func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
