package pdf

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedongthucExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "plan.pdf", buildTestPDF("Ground Floor Plan", "Drawing A-101", "Scale 1:100"))

	doc, err := NewLedongthucExtractor().Extract(path)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, LibraryLedongthuc, doc.Library)
	require.Equal(t, 2, doc.PageCount())

	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Number)
		assert.InDelta(t, 612.0, page.Width, 0.01)
		assert.InDelta(t, 792.0, page.Height, 0.01)
	}

	assert.Contains(t, doc.Pages[0].Text, "A-101")
	assert.Contains(t, doc.Pages[1].Text, "1:100")
	assert.Contains(t, doc.CombinedText(), "Scale")

	assert.Equal(t, "2", doc.Metadata[MetaNumPages])
	assert.Equal(t, "Ground Floor Plan", doc.Metadata[MetaTitle])
}

func TestLedongthucExtractor_MissingFile(t *testing.T) {
	_, err := NewLedongthucExtractor().Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, KindFileAccess, extractionErr.Kind)
	assert.Equal(t, LibraryLedongthuc, extractionErr.Library)
	assert.False(t, extractionErr.Kind.Retryable())
}

func TestLedongthucExtractor_CorruptFile(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "broken.pdf", []byte("this is not a pdf at all"))

	doc, err := NewLedongthucExtractor().Extract(path)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, IsExtractionError(err))
}

func TestPDFCPUExtractor_Extract(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "plan.pdf", buildTestPDF("", "Drawing A-101", "Scale 1:100", "Sheet 3"))

	doc, err := NewPDFCPUExtractor().Extract(path)
	require.NoError(t, err)

	assert.Equal(t, LibraryPDFCPU, doc.Library)
	require.Equal(t, 3, doc.PageCount())
	assert.Equal(t, "Drawing A-101", doc.Pages[0].Text)
	assert.Equal(t, "Sheet 3", doc.Pages[2].Text)
	assert.Equal(t, "3", doc.Metadata[MetaNumPages])
}

func TestPDFCPUExtractor_MissingFile(t *testing.T) {
	_, err := NewPDFCPUExtractor().Extract(filepath.Join(t.TempDir(), "missing.pdf"))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, KindFileAccess, extractionErr.Kind)
}

func TestTextFromStream(t *testing.T) {
	tests := []struct {
		name        string
		stream      string
		want        string
		wantDropped bool
	}{
		{
			name:   "single show",
			stream: "BT\n/F1 12 Tf\n72 720 Td\n(図面番号 A-1) Tj\nET\n",
			want:   "図面番号 A-1",
		},
		{
			name:   "array show",
			stream: "BT\n[(Sca) -20 (le 1:50)] TJ\nET\n",
			want:   "Scale 1:50",
		},
		{
			name:   "escaped parentheses",
			stream: "BT\n(pitch \\(max\\) 150mm) Tj\nET\n",
			want:   "pitch (max) 150mm",
		},
		{
			name:   "octal escape",
			stream: "BT\n(A\\101B) Tj\nET\n",
			want:   "AAB",
		},
		{
			name:   "two blocks",
			stream: "BT\n(first) Tj\nET\nBT\n(second) Tj\nET\n",
			want:   "first\nsecond",
		},
		{
			name:   "no text",
			stream: "0 0 m\n100 100 l\nS\n",
			want:   "",
		},
		{
			name:        "octal escapes outside utf-8",
			stream:      "BT\n(A-101 \\223\\372) Tj\nET\n",
			want:        "A-101",
			wantDropped: true,
		},
		{
			name:        "only encoded glyph codes",
			stream:      "BT\n(\\223\\377) Tj\nET\n",
			want:        "",
			wantDropped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := textFromStream([]byte(tt.stream))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDropped, dropped)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestPDFCPUExtractor_InvalidUTF8(t *testing.T) {
	t.Run("readable text survives", func(t *testing.T) {
		path := writeTestFile(t, t.TempDir(), "mixed.pdf", buildTestPDF("", "A-101 \\223\\372", "\\377"))

		doc, err := NewPDFCPUExtractor().Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "A-101", doc.Pages[0].Text)
		assert.Equal(t, "", doc.Pages[1].Text)
		assert.True(t, utf8.ValidString(doc.CombinedText()))
	})

	t.Run("nothing readable", func(t *testing.T) {
		path := writeTestFile(t, t.TempDir(), "encoded.pdf", buildTestPDF("", "\\223\\372", "\\377\\376"))

		doc, err := NewPDFCPUExtractor().Extract(path)
		require.Error(t, err)
		assert.Nil(t, doc)

		var extractionErr *ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, KindTextExtraction, extractionErr.Kind)
	})
}

func TestLedongthucExtractor_TruncatesLongText(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "long.pdf", buildTestPDF("", "Drawing A-101", "Scale 1:100"))

	extractor := &LedongthucExtractor{maxTextSize: 8}
	doc, err := extractor.Extract(path)
	require.NoError(t, err)

	require.Equal(t, 2, doc.PageCount())
	assert.LessOrEqual(t, len(doc.CombinedText()), 9)
	assert.Equal(t, "", doc.Pages[1].Text)
	assert.Equal(t, "true", doc.Metadata[MetaTextTruncated])

	full, err := NewLedongthucExtractor().Extract(path)
	require.NoError(t, err)
	assert.NotContains(t, full.Metadata, MetaTextTruncated)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 10))
	assert.Equal(t, "ab", truncateUTF8("abc", 2))
	assert.Equal(t, "", truncateUTF8("abc", 0))
	// "縮" is three bytes; cutting inside it drops the whole rune
	assert.Equal(t, "a", truncateUTF8("a縮尺", 2))
	assert.Equal(t, "a縮", truncateUTF8("a縮尺", 4))
}

// fakeExtractor returns a canned document or error and counts calls
type fakeExtractor struct {
	lib   LibraryType
	doc   *Document
	err   error
	calls int
}

func (f *fakeExtractor) Extract(path string) (*Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeExtractor) Library() LibraryType {
	return f.lib
}

func TestFallbackExtractor(t *testing.T) {
	okDoc := &Document{Path: "x.pdf", Library: LibraryPDFCPU, Pages: []Page{{Number: 1, Text: "ok"}}}

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &fakeExtractor{lib: LibraryLedongthuc, doc: &Document{Library: LibraryLedongthuc}}
		fallback := &fakeExtractor{lib: LibraryPDFCPU, doc: okDoc}

		doc, err := NewFallbackExtractor(primary, fallback, false).Extract("x.pdf")
		require.NoError(t, err)
		assert.Equal(t, LibraryLedongthuc, doc.Library)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("retryable failure uses fallback", func(t *testing.T) {
		primary := &fakeExtractor{lib: LibraryLedongthuc,
			err: newExtractionError("x.pdf", LibraryLedongthuc, KindCorruptedData, errors.New("bad xref"))}
		fallback := &fakeExtractor{lib: LibraryPDFCPU, doc: okDoc}

		doc, err := NewFallbackExtractor(primary, fallback, true).Extract("x.pdf")
		require.NoError(t, err)
		assert.Same(t, okDoc, doc)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("file access failure skips fallback", func(t *testing.T) {
		primary := &fakeExtractor{lib: LibraryLedongthuc,
			err: newExtractionError("x.pdf", LibraryLedongthuc, KindFileAccess, errors.New("permission denied"))}
		fallback := &fakeExtractor{lib: LibraryPDFCPU, doc: okDoc}

		_, err := NewFallbackExtractor(primary, fallback, false).Extract("x.pdf")
		var extractionErr *ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, KindFileAccess, extractionErr.Kind)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("both fail", func(t *testing.T) {
		primaryCause := errors.New("bad xref")
		primary := &fakeExtractor{lib: LibraryLedongthuc,
			err: newExtractionError("x.pdf", LibraryLedongthuc, KindCorruptedData, primaryCause)}
		fallback := &fakeExtractor{lib: LibraryPDFCPU,
			err: newExtractionError("x.pdf", LibraryPDFCPU, KindEncrypted, errors.New("password required"))}

		doc, err := NewFallbackExtractor(primary, fallback, false).Extract("x.pdf")
		assert.Nil(t, doc)

		var extractionErr *ExtractionError
		require.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, LibraryAuto, extractionErr.Library)
		assert.Equal(t, KindEncrypted, extractionErr.Kind)
		assert.ErrorIs(t, err, primaryCause)
		assert.Contains(t, err.Error(), "password required")
	})

	t.Run("plain error from primary is retried", func(t *testing.T) {
		primary := &fakeExtractor{lib: LibraryLedongthuc, err: fmt.Errorf("unexpected")}
		fallback := &fakeExtractor{lib: LibraryPDFCPU, doc: okDoc}

		_, err := NewFallbackExtractor(primary, fallback, false).Extract("x.pdf")
		require.NoError(t, err)
		assert.Equal(t, 1, fallback.calls)
	})
}

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		lib     LibraryType
		want    LibraryType
		wantErr bool
	}{
		{lib: "", want: LibraryAuto},
		{lib: LibraryAuto, want: LibraryAuto},
		{lib: LibraryLedongthuc, want: LibraryLedongthuc},
		{lib: LibraryPDFCPU, want: LibraryPDFCPU},
		{lib: "mupdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.lib), func(t *testing.T) {
			extractor, err := NewExtractor(tt.lib, false)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, extractor.Library())
		})
	}

	assert.Len(t, SupportedLibraries(), 3)
}

func TestAutoExtractor_CorruptFile(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "broken.pdf", []byte("%PDF-1.4\ngarbage without structure"))

	extractor, err := NewExtractor(LibraryAuto, false)
	require.NoError(t, err)

	doc, err := extractor.Extract(path)
	assert.Nil(t, doc)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, LibraryAuto, extractionErr.Library)
}

func TestDocument_CombinedText(t *testing.T) {
	doc := &Document{Pages: []Page{
		{Number: 1, Text: "図面番号: A-1"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "縮尺 1:100"},
	}}

	assert.Equal(t, "図面番号: A-1\n\n縮尺 1:100", doc.CombinedText())
	assert.Equal(t, 3, doc.PageCount())
	assert.Equal(t, "", (&Document{}).CombinedText())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "ENCRYPTED", KindEncrypted.String())
	assert.Equal(t, "UNKNOWN", ErrorKind(99).String())
	assert.True(t, KindCorruptedData.Retryable())
	assert.True(t, KindTextExtraction.Retryable())
	assert.False(t, KindInvalidFile.Retryable())

	err := fmt.Errorf("wrapped: %w", newExtractionError("a.pdf", LibraryPDFCPU, KindEncrypted, errors.New("locked")))
	assert.True(t, IsExtractionError(err))
	assert.False(t, IsExtractionError(errors.New("other")))
	assert.Contains(t, err.Error(), "[ENCRYPTED] pdfcpu extraction failed for a.pdf: locked")
}
