package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/pkg/config"
)

// MinIOClient wraps MinIO operations
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	endpoint  string
	useSSL    bool
	publicURL string // Public URL for generating accessible URLs (e.g., https://minio.example.com)
}

// NewMinIOClient creates a new MinIO client
func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		endpoint:  cfg.Endpoint,
		useSSL:    cfg.UseSSL,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}

	// MinIO often starts alongside the API, so bucket setup is retried briefly
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	ctx := context.Background()
	if err := backoff.Retry(func() error {
		return client.ensureBucketWithPolicy(ctx)
	}, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucketWithPolicy ensures bucket exists and has public read policy
func (m *MinIOClient) ensureBucketWithPolicy(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	// Uploaded audio, reference documents and narration clips are addressed by
	// plain URL from browsers and AI providers, so objects are publicly readable
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.bucket)

	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// Put uploads an object and returns its public address
func (m *MinIOClient) Put(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (*entities.StoredObject, error) {
	info, err := m.client.PutObject(ctx, m.bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return &entities.StoredObject{
		Name:         name,
		URL:          m.ObjectURL(name),
		ContentType:  contentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// Stat returns metadata of a stored object
func (m *MinIOClient) Stat(ctx context.Context, name string) (*entities.StoredObject, error) {
	info, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return nil, entities.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}

	return &entities.StoredObject{
		Name:         name,
		URL:          m.ObjectURL(name),
		ContentType:  info.ContentType,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// PresignPut returns a URL the browser can PUT the object body to directly
func (m *MinIOClient) PresignPut(ctx context.Context, name string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, m.bucket, name, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return m.rewriteToPublic(u), nil
}

// rewriteToPublic swaps the internal endpoint for the public one when MinIO sits behind a proxy.
// Original: http://minio:9000/bucket/path?query, rewritten: https://files.example.com/bucket/path?query
func (m *MinIOClient) rewriteToPublic(u *url.URL) string {
	urlStr := u.String()
	if m.publicURL == "" {
		return urlStr
	}

	bucketPos := len(u.Scheme) + 3 + len(u.Host) // "https://" + host
	if bucketPos >= len(urlStr) {
		return urlStr
	}
	return m.publicURL + urlStr[bucketPos:]
}

// ObjectURL returns the permanent public URL of an object
func (m *MinIOClient) ObjectURL(name string) string {
	base := m.publicURL
	if base == "" {
		scheme := "http"
		if m.useSSL {
			scheme = "https"
		}
		base = scheme + "://" + m.endpoint
	}

	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/" + url.PathEscape(m.bucket) + "/" + strings.Join(segments, "/")
}

// ObjectSizes maps every object name under prefix to its size
func (m *MinIOClient) ObjectSizes(ctx context.Context, prefix string) (map[string]int64, error) {
	sizes := make(map[string]int64)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		sizes[obj.Key] = obj.Size
	}
	return sizes, nil
}

// Ping checks the bucket is reachable
func (m *MinIOClient) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}
