package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/llsaimur/papertrails/internal/config"
)

// minioRetention implements Retention against an S3-compatible backend
// (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type minioRetention struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a retention store backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Retention, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioRetention{client: cli, bucket: cfg.Bucket}, nil
}

// Save stores an original upload using streaming I/O only (no local disk).
func (m *minioRetention) Save(ctx context.Context, key string, r io.Reader, opt SaveOptions) error {
	putOpts := minio.PutObjectOptions{
		ContentType: opt.ContentType,
	}
	if opt.OriginalFilename != "" {
		putOpts.UserMetadata = map[string]string{"original-filename": opt.OriginalFilename}
	}
	if _, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts); err != nil {
		return fmt.Errorf("retain original: %w", err)
	}
	return nil
}

// Open streams a retained original back.
func (m *minioRetention) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat forces the first round trip so a missing key
	// fails here instead of on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// Remove deletes a retained original by key.
func (m *minioRetention) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// PresignDownload generates a pre-signed GET URL with the specified expiry.
func (m *minioRetention) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
