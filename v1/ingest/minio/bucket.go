package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Bucket is the object listing and reading the source needs.
type Bucket interface {
	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Open streams one object.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Client is a Bucket backed by a MinIO or S3 server.
type Client struct {
	api    *minio.Client
	bucket string
}

var _ Bucket = (*Client)(nil)

// NewClient connects to the server of cfg and checks that the bucket exists.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("minio: bucket name is required")
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to create client: %w", err)
	}

	exists, err := api.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("minio: failed to check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		return nil, fmt.Errorf("minio: bucket %s does not exist", cfg.BucketName)
	}

	return &Client{api: api, bucket: cfg.BucketName}, nil
}

func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range c.api.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio: failed to list %s/%s: %w", c.bucket, prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to get %s/%s: %w", c.bucket, key, err)
	}
	return obj, nil
}
