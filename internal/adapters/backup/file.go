package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileDestination writes snapshots into a local directory.
type FileDestination struct {
	dir string
}

// NewFileDestination creates a destination rooted at dir. The directory is
// created on first write.
func NewFileDestination(dir string) *FileDestination {
	return &FileDestination{dir: dir}
}

// Write stores data as dir/name. The file appears atomically.
func (d *FileDestination) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("snapshot name %q must not contain a path", name)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".snapshot-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}

	path := filepath.Join(d.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename snapshot: %w", err)
	}
	return path, nil
}
