package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validator checks drawing files before any extraction is attempted
type Validator struct {
	maxFileSize int64
	directory   string
}

// NewValidator creates a validator. When directory is non-empty, ValidatePath
// confines paths to it.
func NewValidator(maxFileSize int64, directory string) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		directory:   directory,
	}
}

// Directory returns the configured drawing directory
func (v *Validator) Directory() string {
	return v.directory
}

// MaxFileSize returns the size limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// ValidateFile checks that path names an existing, non-empty PDF within the size limit
func (v *Validator) ValidateFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	return v.ValidateFileInfo(path, fileInfo)
}

// ValidateFileInfo performs the same checks without touching the filesystem again
func (v *Validator) ValidateFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !IsPDFName(path) {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// ValidatePath checks that path resolves inside the configured directory
func (v *Validator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if v.directory == "" {
		return nil
	}

	within, err := IsWithinDirectory(path, v.directory)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// IsWithinDirectory reports whether path, after resolving symlinks, lies inside directory
func IsWithinDirectory(path, directory string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}

	absDir, err := filepath.Abs(directory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve directory: %w", err)
	}

	realPath, err := resolveExisting(absPath)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate symlinks: %w", err)
	}

	realDir, err := resolveExisting(absDir)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate directory symlinks: %w", err)
	}

	realPath = filepath.Clean(realPath)
	realDir = filepath.Clean(realDir)

	rel, err := filepath.Rel(realDir, realPath)
	if err != nil {
		return false, nil //nolint:nilerr // different volumes are simply outside
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

// resolveExisting evaluates symlinks on the longest existing prefix of path,
// so a file that does not exist yet is judged by where it would be created
func resolveExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	realParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(realParent, filepath.Base(path)), nil
}

// IsPDFName reports whether the file name has a .pdf extension
func IsPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
