package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage is a thin wrapper around the minio client implementing
// BlobStore for the asset bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(cfg *MinIOConfig) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// Upload streams the asset into the bucket, emitting progress events while
// the body is consumed.
func (s *MinIOStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, progress ProgressFunc) error {
	body := newProgressReader(reader, size, progress)
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// ResolveURL returns the public URL for an uploaded object. The bucket is
// served with a public-read policy, so a plain path URL is enough.
func (s *MinIOStorage) ResolveURL(ctx context.Context, key string) (string, error) {
	base := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", base.Scheme, base.Host, s.bucket, key), nil
}

// Delete removes the object addressed by a key or by a previously resolved
// URL. Missing objects are tolerated.
func (s *MinIOStorage) Delete(ctx context.Context, keyOrURL string) error {
	key := s.keyOf(keyOrURL)
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil
		}
		return err
	}
	return nil
}

// Health reports whether the asset bucket is reachable, for readiness probes.
func (s *MinIOStorage) Health(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s missing", s.bucket)
	}
	return nil
}

// GetPresignedURL returns a presigned GET URL valid for the given duration.
func (s *MinIOStorage) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, s.keyOf(key), expires, nil)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

func (s *MinIOStorage) keyOf(keyOrURL string) string {
	return KeyFromURL(keyOrURL, s.bucket)
}

// KeyFromURL maps a resolved public URL back to its object key. Plain keys
// pass through unchanged, so callers may hand over whatever a document
// record stored.
func KeyFromURL(keyOrURL, bucket string) string {
	if !strings.Contains(keyOrURL, "://") {
		return keyOrURL
	}
	rest := keyOrURL[strings.Index(keyOrURL, "://")+3:]
	marker := "/" + bucket + "/"
	if i := strings.Index(rest, marker); i >= 0 {
		return rest[i+len(marker):]
	}
	// URL from a different layout; fall back to the path after the host
	if i := strings.Index(rest, "/"); i >= 0 {
		return strings.TrimPrefix(rest[i+1:], "/")
	}
	return keyOrURL
}
