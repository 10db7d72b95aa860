package pdf

import "strings"

// LibraryType identifies the PDF library that produced a document
type LibraryType string

const (
	LibraryLedongthuc LibraryType = "ledongthuc"
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryAuto       LibraryType = "auto" // ledongthuc first, pdfcpu on failure
)

// Metadata keys recorded by the extractors
const (
	MetaTitle        = "title"
	MetaAuthor       = "author"
	MetaSubject      = "subject"
	MetaCreator      = "creator"
	MetaProducer     = "producer"
	MetaCreationDate = "creation_date"
	MetaModDate      = "modification_date"
	MetaNumPages     = "num_pages"

	// MetaTextTruncated is set to "true" when page text beyond the size limit was dropped
	MetaTextTruncated = "text_truncated"
)

// Page is the text and size of one physical page
type Page struct {
	Number int     `json:"page_number" yaml:"page_number"`
	Text   string  `json:"text" yaml:"text"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Document is the extracted text of a drawing, one entry per page in page order.
// It is created once per check run and never modified afterwards.
type Document struct {
	Path     string            `json:"path" yaml:"path"`
	Library  LibraryType       `json:"library" yaml:"library"`
	Pages    []Page            `json:"pages" yaml:"pages"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// CombinedText joins all page texts in page order, newline separated
func (d *Document) CombinedText() string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n")
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// FileInfo describes a drawing file found on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}
