package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/pkg/helpers"
)

// GCSStore keeps images as objects under prefix in a Google Cloud Storage
// bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
	logger *logrus.Logger
}

func NewGCSStore(client *storage.Client, bucket, prefix string, logger *logrus.Logger) (*GCSStore, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs not configured")
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

func (s *GCSStore) objectPath(name string) string {
	return path.Join(s.prefix, name)
}

// Save fails rather than retries on a name collision since r has already
// been consumed by then.
func (s *GCSStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	name := NewFilename(originalName)
	if err := helpers.UploadObject(ctx, s.client, s.bucket, s.objectPath(name), helpers.ContentTypeByName(name), r); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return name, nil
}

func (s *GCSStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		s.logger.WithField("image", name).Warn("refusing to delete invalid image name")
		return nil
	}
	err := s.client.Bucket(s.bucket).Object(s.objectPath(name)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		s.logger.WithField("image", name).Warn("image already gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	s.logger.WithField("image", name).Info("image deleted")
	return nil
}

func (s *GCSStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, repository.ErrImageNotFound
	}
	rc, err := s.client.Bucket(s.bucket).Object(s.objectPath(name)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, repository.ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}

var _ repository.ImageStore = (*GCSStore)(nil)
