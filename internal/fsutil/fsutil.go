// Package fsutil holds the thin filesystem helpers the resolver and the CLI
// need: readability checks, nested directory creation and path removal.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o775

// CreateNestedDirs creates base/sub[0]/sub[1]/... one level at a time.
// An empty base means the current directory. Existing directories are fine.
func CreateNestedDirs(base string, subdirs []string) error {
	dir := base
	if dir == "" {
		dir = "."
	}
	for _, sub := range subdirs {
		if sub == "" {
			continue
		}
		dir = filepath.Join(dir, sub)
		if err := os.Mkdir(dir, dirPerm); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CreatePathForFile makes sure every parent directory of path exists.
func CreatePathForFile(path string) error {
	if path == "" {
		return nil
	}
	base := "."
	if filepath.IsAbs(path) {
		base = string(filepath.Separator)
	}
	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	return CreateNestedDirs(base, parts[:len(parts)-1])
}

// RemovePath unlinks path; a missing file is not an error.
func RemovePath(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
