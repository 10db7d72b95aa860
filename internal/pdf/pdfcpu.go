package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUExtractor reads text straight from page content streams with pdfcpu.
// It copes with files ledongthuc rejects but only decodes literal strings.
type PDFCPUExtractor struct{}

// NewPDFCPUExtractor creates the fallback extractor
func NewPDFCPUExtractor() *PDFCPUExtractor {
	return &PDFCPUExtractor{}
}

// Library returns the library type
func (e *PDFCPUExtractor) Library() LibraryType {
	return LibraryPDFCPU
}

// Extract opens the file, reads every page and releases the file before returning
func (e *PDFCPUExtractor) Extract(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newExtractionError(path, LibraryPDFCPU, KindFileAccess,
			fmt.Errorf("failed to open file: %w", err))
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(file, conf)
	if err != nil {
		kind := KindCorruptedData
		if strings.Contains(strings.ToLower(err.Error()), "password") {
			kind = KindEncrypted
		}
		return nil, newExtractionError(path, LibraryPDFCPU, kind,
			fmt.Errorf("failed to read PDF context: %w", err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, newExtractionError(path, LibraryPDFCPU, KindCorruptedData,
			fmt.Errorf("failed to ensure page count: %w", err))
	}

	// Page sizes are informational; a missing MediaBox leaves them zero
	dims, _ := ctx.PageDims()

	pages := make([]Page, 0, ctx.PageCount)
	lossy, decoded := 0, 0
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		text, dropped, err := contentStreamText(ctx, pageNr)
		if err != nil {
			return nil, newExtractionError(path, LibraryPDFCPU, KindTextExtraction,
				fmt.Errorf("page %d: %w", pageNr, err))
		}
		if dropped {
			lossy++
		}
		if text != "" {
			decoded++
		}

		page := Page{Number: pageNr, Text: text}
		if pageNr <= len(dims) {
			page.Width = dims[pageNr-1].Width
			page.Height = dims[pageNr-1].Height
		}
		pages = append(pages, page)
	}

	// Text drawn through encoded fonts comes out as raw glyph codes. When
	// nothing readable survives, an empty document would fail every rule.
	if lossy > 0 && decoded == 0 {
		return nil, newExtractionError(path, LibraryPDFCPU, KindTextExtraction,
			fmt.Errorf("no decodable text on %d page(s) with encoded strings", lossy))
	}

	metadata := map[string]string{
		MetaNumPages: strconv.Itoa(ctx.PageCount),
	}
	for name, value := range map[string]string{
		MetaTitle:        ctx.Title,
		MetaAuthor:       ctx.Author,
		MetaSubject:      ctx.Subject,
		MetaCreator:      ctx.Creator,
		MetaProducer:     ctx.Producer,
		MetaCreationDate: ctx.XRefTable.CreationDate,
		MetaModDate:      ctx.ModDate,
	} {
		if v := strings.TrimSpace(value); v != "" {
			metadata[name] = v
		}
	}

	return &Document{
		Path:     path,
		Library:  LibraryPDFCPU,
		Pages:    pages,
		Metadata: metadata,
	}, nil
}

// contentStreamText extracts the text shown on a single page. A page without
// a content stream yields an empty string. dropped reports that bytes which
// are not UTF-8 had to be removed.
func contentStreamText(ctx *model.Context, pageNr int) (text string, dropped bool, err error) {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return "", false, err
	}
	if r == nil {
		return "", false, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, err
	}
	text, dropped = textFromStream(data)
	return text, dropped, nil
}

// literalRe matches PDF string literals in parentheses: (text here)
var literalRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// textFromStream walks content stream operators line by line and collects the
// operands of the text-showing operators. Invalid UTF-8 is removed; dropped
// reports whether any was found.
func textFromStream(data []byte) (text string, dropped bool) {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range literalRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range literalRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodeLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")), bytes.Equal(line, []byte("ET")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		}
	}

	raw := sb.String()
	if !utf8.ValidString(raw) {
		raw, dropped = strings.ToValidUTF8(raw, ""), true
	}
	return strings.TrimSpace(raw), dropped
}

// decodeLiteral resolves the escape sequences of a PDF literal string
func decodeLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			// Octal escape, up to three digits
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
