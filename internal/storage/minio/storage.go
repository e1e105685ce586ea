// Package minio provides an S3-compatible sink for rendered images.
package minio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
)

// Storage uploads rendered files to an S3-compatible bucket.
type Storage struct {
	client   *minio.Client
	bucket   string
	strategy retry.Strategy
}

// NewStorage creates a Storage connected to the given MinIO server.
// If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, strategy retry.Strategy) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:   client,
		bucket:   bucket,
		strategy: strategy,
	}, nil
}

// Save uploads data under path as the object name. Transient upload
// errors are retried per the configured strategy before the failure is
// reported to the task.
func (s *Storage) Save(ctx context.Context, path string, data []byte) error {
	err := retry.Do(func() error {
		_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "image/png",
		})
		return err
	}, s.strategy)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return nil
}
