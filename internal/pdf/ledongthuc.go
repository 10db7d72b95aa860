package pdf

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// LedongthucExtractor extracts per-page plain text with ledongthuc/pdf
type LedongthucExtractor struct {
	maxTextSize int
}

// NewLedongthucExtractor creates the primary extractor
func NewLedongthucExtractor() *LedongthucExtractor {
	return &LedongthucExtractor{
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// Library returns the library type
func (e *LedongthucExtractor) Library() LibraryType {
	return LibraryLedongthuc
}

// Extract opens the file, reads every page and releases the file before returning
func (e *LedongthucExtractor) Extract(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		// pdf.Open hands back the open file even when parsing fails
		if f != nil {
			f.Close()
		}
		kind := KindCorruptedData
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			kind = KindFileAccess
		}
		return nil, newExtractionError(path, LibraryLedongthuc, kind,
			fmt.Errorf("failed to open PDF: %w", err))
	}
	defer f.Close()

	numPages := r.NumPage()
	pages := make([]Page, 0, numPages)
	totalLength := 0
	truncated := false

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, Page{Number: pageNum})
			continue
		}

		text, err := pageText(page)
		if err != nil {
			return nil, newExtractionError(path, LibraryLedongthuc, KindTextExtraction,
				fmt.Errorf("page %d: %w", pageNum, err))
		}

		// Keep the page but stop growing the text once the limit is reached
		if totalLength+len(text) > e.maxTextSize {
			if !truncated {
				log.Printf("text of %s exceeds %d bytes, dropping the rest from page %d on",
					path, e.maxTextSize, pageNum)
			}
			truncated = true
			text = truncateUTF8(text, e.maxTextSize-totalLength)
		}
		totalLength += len(text)

		width, height := mediaBoxSize(page.V)
		pages = append(pages, Page{
			Number: pageNum,
			Text:   text,
			Width:  width,
			Height: height,
		})
	}

	metadata := readInfo(r)
	metadata[MetaNumPages] = strconv.Itoa(numPages)
	if truncated {
		metadata[MetaTextTruncated] = "true"
	}

	return &Document{
		Path:     path,
		Library:  LibraryLedongthuc,
		Pages:    pages,
		Metadata: metadata,
	}, nil
}

// pageText converts panics from malformed content streams into errors
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed content stream: %v", rec)
		}
	}()
	return page.GetPlainText(nil)
}

// mediaBoxSize returns the page size in points, following inherited MediaBox entries
func mediaBoxSize(v pdf.Value) (width, height float64) {
	defer func() {
		if recover() != nil {
			width, height = 0, 0
		}
	}()

	for node := v; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() < 4 {
			continue
		}
		width = box.Index(2).Float64() - box.Index(0).Float64()
		height = box.Index(3).Float64() - box.Index(1).Float64()
		return width, height
	}
	return 0, 0
}

// readInfo reads the document information dictionary. Failure is not fatal.
func readInfo(r *pdf.Reader) (metadata map[string]string) {
	metadata = make(map[string]string)

	defer func() {
		// Metadata is reporting-only; keep whatever was read before the failure
		_ = recover()
	}()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return metadata
	}

	fields := map[string]string{
		"Title":        MetaTitle,
		"Author":       MetaAuthor,
		"Subject":      MetaSubject,
		"Creator":      MetaCreator,
		"Producer":     MetaProducer,
		"CreationDate": MetaCreationDate,
		"ModDate":      MetaModDate,
	}
	for key, name := range fields {
		if val := info.Key(key); !val.IsNull() {
			if s := strings.TrimSpace(val.Text()); s != "" {
				metadata[name] = s
			}
		}
	}

	return metadata
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
