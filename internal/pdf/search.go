package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindDrawings lists PDF files under directory, newest first, stopping after
// limit entries when limit is positive. Unreadable entries are skipped.
func (v *Validator) FindDrawings(directory, query string, limit int) ([]FileInfo, error) {
	if directory == "" {
		directory = v.directory
	}
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if err := v.ValidatePath(directory); err != nil {
		return nil, err
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var files []FileInfo

	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Intentionally continue on file errors
		}
		if info.IsDir() {
			return nil
		}
		if v.ValidateFileInfo(path, info) != nil {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModifiedTime > files[j].ModifiedTime
	})
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	return files, nil
}
