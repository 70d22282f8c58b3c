// Package storage persists uploaded files behind a small interface so the
// upload service does not care where the bytes land.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type FileStore interface {
	Save(ctx context.Context, name string, src io.Reader) (int64, error)
	Delete(ctx context.Context, name string) error
}

// LocalDisk stores files in a flat directory. Names are generated by the
// caller and never contain path separators.
type LocalDisk struct {
	dir string
}

func NewLocalDisk(dir string) (*LocalDisk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %q: %w", dir, err)
	}

	return &LocalDisk{dir: dir}, nil
}

func (s *LocalDisk) Save(ctx context.Context, name string, src io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path := filepath.Join(s.dir, filepath.Base(name))

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create file %q: %w", name, err)
	}

	written, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(path)

		return 0, fmt.Errorf("write file %q: %w", name, err)
	}

	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("close file %q: %w", name, err)
	}

	return written, nil
}

func (s *LocalDisk) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil {
		return fmt.Errorf("remove file %q: %w", name, err)
	}

	return nil
}
