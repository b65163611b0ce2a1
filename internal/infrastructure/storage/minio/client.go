// Package minio implements the durable report archive on top of
// S3-compatible object storage.
package minio

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nexus-advisory/nexus-intelligence/internal/config"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

// objectAPI is the subset of *minio.Client the archive needs.
// Narrowed for testability.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Client wraps the MinIO SDK with the bucket and key conventions used
// for archived reports.
type Client struct {
	api           objectAPI
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewClient connects to object storage and ensures the archive bucket
// exists.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeValidation, "minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New(errors.ErrCodeValidation, "minio bucket is required")
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	client := newClientWithAPI(api, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	client.logger.Info("Object storage connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return client, nil
}

func newClientWithAPI(api objectAPI, cfg config.MinIOConfig, log logging.Logger) *Client {
	expiry := cfg.PresignExpiry
	if expiry == 0 {
		expiry = time.Hour
	}
	return &Client{
		api:           api,
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
		logger:        log.Named("minio"),
	}
}

// EnsureBucket creates the archive bucket if it does not exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create bucket")
	}
	c.logger.Info("Created archive bucket", logging.String("bucket", c.bucket))
	return nil
}

// Put uploads an object under the archive bucket.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to upload object")
	}
	return nil
}

// Get downloads an object's full content.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "object not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read object")
	}
	return data, nil
}

// Exists reports whether an object is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat object")
	}
	return true, nil
}

// PresignedURL returns a time-limited download URL for an object.
func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := c.api.PresignedGetObject(ctx, c.bucket, key, c.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to presign object url")
	}
	return u.String(), nil
}

// HealthCheck verifies the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "object storage unreachable")
	}
	return nil
}

// Bucket returns the configured archive bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
