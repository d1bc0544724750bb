package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/internal/domain/repository"
)

const maxSaveAttempts = 5

// LocalStore keeps images as files in one flat directory.
type LocalStore struct {
	dir    string
	logger *logrus.Logger
}

func NewLocalStore(dir string, logger *logrus.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		name := NewFilename(originalName)
		p := filepath.Join(s.dir, name)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := io.Copy(f, r); err != nil {
			_ = f.Close()
			_ = os.Remove(p)
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(p)
			return "", fmt.Errorf("close %s: %w", name, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free name for %q after %d attempts", originalName, maxSaveAttempts)
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if !ValidName(name) {
		s.logger.WithField("image", name).Warn("refusing to delete invalid image name")
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.WithField("image", name).Warn("image already gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	s.logger.WithField("image", name).Info("image deleted")
	return nil
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, repository.ErrImageNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repository.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	if fi, err := f.Stat(); err != nil || fi.IsDir() {
		_ = f.Close()
		return nil, repository.ErrImageNotFound
	}
	return f, nil
}

var _ repository.ImageStore = (*LocalStore)(nil)
