package pdf

import (
	"errors"
	"fmt"
	"log"
)

// Extractor turns a drawing file into per-page text. Implementations must
// release the file on every return path and report failures as *ExtractionError.
type Extractor interface {
	Extract(path string) (*Document, error)
	Library() LibraryType
}

// FallbackExtractor tries a primary extractor and, when the failure is one a
// different parser might get past, a fallback. Callers only see the outcome.
type FallbackExtractor struct {
	primary  Extractor
	fallback Extractor
	debug    bool
}

// NewFallbackExtractor chains two extractors
func NewFallbackExtractor(primary, fallback Extractor, debug bool) *FallbackExtractor {
	return &FallbackExtractor{
		primary:  primary,
		fallback: fallback,
		debug:    debug,
	}
}

// Library returns LibraryAuto; the document records which library actually ran
func (f *FallbackExtractor) Library() LibraryType {
	return LibraryAuto
}

// Extract runs the primary extractor and falls back when allowed
func (f *FallbackExtractor) Extract(path string) (*Document, error) {
	doc, err := f.primary.Extract(path)
	if err == nil {
		return doc, nil
	}

	var primaryErr *ExtractionError
	if !errors.As(err, &primaryErr) {
		primaryErr = newExtractionError(path, f.primary.Library(), KindUnknown, err)
	}
	if !primaryErr.Kind.Retryable() {
		return nil, primaryErr
	}

	if f.debug {
		log.Printf("%s extraction failed, falling back to %s: %v",
			f.primary.Library(), f.fallback.Library(), err)
	}

	doc, err = f.fallback.Extract(path)
	if err == nil {
		return doc, nil
	}

	kind := KindUnknown
	var fallbackErr *ExtractionError
	if errors.As(err, &fallbackErr) {
		kind = fallbackErr.Kind
	}
	return nil, newExtractionError(path, LibraryAuto, kind, errors.Join(primaryErr, err))
}

// NewExtractor creates the extractor for the requested library
func NewExtractor(lib LibraryType, debug bool) (Extractor, error) {
	switch lib {
	case LibraryLedongthuc:
		return NewLedongthucExtractor(), nil
	case LibraryPDFCPU:
		return NewPDFCPUExtractor(), nil
	case LibraryAuto, "":
		return NewFallbackExtractor(NewLedongthucExtractor(), NewPDFCPUExtractor(), debug), nil
	default:
		return nil, fmt.Errorf("unknown extractor library: %s", lib)
	}
}

// SupportedLibraries lists the accepted library names
func SupportedLibraries() []LibraryType {
	return []LibraryType{LibraryAuto, LibraryLedongthuc, LibraryPDFCPU}
}
