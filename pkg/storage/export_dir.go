package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidName is returned for names that would escape the directory.
var ErrInvalidName = errors.New("invalid export file name")

// ExportDir writes rendered reports into a single directory.
type ExportDir struct {
	baseDir string
}

// NewExportDir ensures baseDir exists. An empty baseDir means the working directory.
func NewExportDir(baseDir string) (*ExportDir, error) {
	if baseDir == "" {
		baseDir = "."
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &ExportDir{baseDir: baseDir}, nil
}

// Save writes data as name inside the directory and returns the full path.
// name must be a bare file name.
func (d *ExportDir) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(d.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// PruneOlderThan removes exports in the directory last modified before
// now-ttl and returns their names. Subdirectories and files with other
// extensions are left alone.
func (d *ExportDir) PruneOlderThan(ttl time.Duration, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read export directory: %w", err)
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed["."+strings.TrimPrefix(ext, ".")] = struct{}{}
	}

	cutoff := time.Now().Add(-ttl)
	deleted := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := allowed[filepath.Ext(entry.Name())]; !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return deleted, fmt.Errorf("stat export file: %w", err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(d.baseDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("delete export file: %w", err)
		}
		deleted = append(deleted, entry.Name())
	}
	return deleted, nil
}
