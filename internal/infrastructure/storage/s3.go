package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/pkg/helpers"
)

// S3Store keeps images as objects under prefix in an S3 compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	logger *logrus.Logger
}

func NewS3Store(client *s3.Client, bucket, prefix string, logger *logrus.Logger) (*S3Store, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("s3 not configured")
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix, logger: logger}, nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Save uploads with If-None-Match so an existing object is never
// overwritten. r should be seekable when the endpoint is plain HTTP.
func (s *S3Store) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	name := NewFilename(originalName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        r,
		ContentType: aws.String(helpers.ContentTypeByName(name)),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", name, err)
	}
	return name, nil
}

// Delete relies on S3 treating deletes of missing keys as success.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		s.logger.WithField("image", name).Warn("refusing to delete invalid image name")
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	s.logger.WithField("image", name).Info("image deleted")
	return nil
}

func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, repository.ErrImageNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, repository.ErrImageNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

var _ repository.ImageStore = (*S3Store)(nil)
