package pdf

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes extraction failures
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindFileAccess
	KindInvalidFile
	KindCorruptedData
	KindEncrypted
	KindTextExtraction
)

// String returns a string representation of the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindFileAccess:
		return "FILE_ACCESS"
	case KindInvalidFile:
		return "INVALID_FILE"
	case KindCorruptedData:
		return "CORRUPTED_DATA"
	case KindEncrypted:
		return "ENCRYPTED"
	case KindTextExtraction:
		return "TEXT_EXTRACTION"
	default:
		return "UNKNOWN"
	}
}

// Retryable reports whether another library might succeed where this one failed.
// A file that cannot be opened at all will not get better with a different parser.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindFileAccess, KindInvalidFile:
		return false
	default:
		return true
	}
}

// ExtractionError reports that a drawing's text could not be extracted.
// No partial document accompanies it.
type ExtractionError struct {
	Path    string      `json:"path"`
	Library LibraryType `json:"library"`
	Kind    ErrorKind   `json:"kind"`
	Err     error       `json:"error"`
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("[%s] %s extraction failed for %s: %v", e.Kind, e.Library, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err is or wraps an *ExtractionError
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

func newExtractionError(path string, lib LibraryType, kind ErrorKind, err error) *ExtractionError {
	return &ExtractionError{
		Path:    path,
		Library: lib,
		Kind:    kind,
		Err:     err,
	}
}
