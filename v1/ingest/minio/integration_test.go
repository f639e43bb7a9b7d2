package minio

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey = "minio_admin"
	testSecretKey = "minio_admin"
)

// setupMinIOContainer starts MinIO and returns its host:port endpoint.
func setupMinIOContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image: "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		Cmd:   []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ACCESS_KEY": testAccessKey,
			"MINIO_SECRET_KEY": testSecretKey,
		},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp").WithStartupTimeout(20*time.Second),
			wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp").WithStartupTimeout(20*time.Second),
		),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start MinIO container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get host: %w", err)
	}
	port, err := c.MappedPort(ctx, "9000")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get mapped port: %w", err)
	}
	return c, fmt.Sprintf("%s:%s", host, port.Port()), nil
}

func TestMinIOSourceIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	c, endpoint, err := setupMinIOContainer(ctx)
	require.NoError(t, err)
	defer func() { _ = c.Terminate(ctx) }()

	admin, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(testAccessKey, testSecretKey, ""),
	})
	require.NoError(t, err)
	require.NoError(t, admin.MakeBucket(ctx, "exports", minio.MakeBucketOptions{}))

	body := []byte("\"a\"\n\"b\"\n")
	_, err = admin.PutObject(ctx, "exports", "docs/part-0.jsonl", bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{})
	require.NoError(t, err)

	cfg := Config{
		Endpoint:        endpoint,
		AccessKeyID:     testAccessKey,
		SecretAccessKey: testSecretKey,
		BucketName:      "exports",
		Prefix:          "docs/",
	}

	t.Run("MissingBucket", func(t *testing.T) {
		missing := cfg
		missing.BucketName = "nope"
		_, err := NewClient(ctx, missing)
		assert.Error(t, err)
	})

	t.Run("ReadsObjects", func(t *testing.T) {
		bucket, err := NewClient(ctx, cfg)
		require.NoError(t, err)

		sender := &collectingSender{}
		sum, err := NewSource[string](bucket, cfg, sender, ingest.JSON[string]()).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, sender.items)
		assert.Equal(t, 2, sum.Sent)
	})
}
