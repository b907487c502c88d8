package storage

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

type fileStorage struct {
	config FileConfig
}

type FileConfig struct {
	Directory string
}

// NewFileStorage creates a new file storage backend rooted at Directory,
// which defaults to the working directory.
func NewFileStorage(ctx context.Context, f FileConfig) (Storage, error) {
	if f.Directory == "" {
		f.Directory = "."
	}

	return &fileStorage{
		config: f,
	}, nil
}

// Put writes through a temporary file in the target directory and renames it
// into place, so readers never observe a half-written file.
func (a *fileStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	filePath := a.URL(key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", xerrors.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return "", xerrors.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", xerrors.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", xerrors.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", xerrors.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", xerrors.Errorf("failed to rename file: %w", err)
	}

	return filePath, nil
}

func (a *fileStorage) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := os.ReadFile(url)
	if err != nil {
		return nil, xerrors.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func (a *fileStorage) Delete(ctx context.Context, url string) error {
	if err := os.Remove(url); err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("failed to remove file: %w", err)
	}

	return nil
}

func (a *fileStorage) URL(key string) string {
	return filepath.Join(a.config.Directory, key)
}
