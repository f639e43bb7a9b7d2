package qdrant

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/graysonrie/vevtor/v1/vectorstore"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// Client implements vectorstore.Store on top of the official Qdrant Go
// client. It is safe for concurrent use.
type Client struct {
	api *qdrant.Client
	cfg *Config
}

var _ vectorstore.Store = (*Client)(nil)

// startupHealthTimeout bounds the health check performed by NewClient.
const startupHealthTimeout = 5 * time.Second

// NewClient connects to Qdrant and validates connectivity with a health
// check, so an unreachable server fails at startup rather than on the
// first write.
//
// Example:
//
//	client, err := qdrant.NewClient(qdrant.Params{Config: qdrant.DefaultConfig()})
func NewClient(p Params) (*Client, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	log.Printf("[Qdrant] Connecting to endpoint: %s:%d", cfg.Endpoint, port)

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	c := &Client{api: api, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), startupHealthTimeout)
	defer cancel()

	status, err := c.HealthCheck(ctx)
	if err != nil {
		_ = api.Close()
		return nil, err
	}

	log.Printf("[Qdrant] Connected (title=%s, version=%s)", status.Title, status.Version)
	return c, nil
}

// HealthCheck reports the server identity. It is lightweight and suited
// for readiness probes.
func (c *Client) HealthCheck(ctx context.Context) (*vectorstore.HealthStatus, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	return &vectorstore.HealthStatus{
		Title:   resp.GetTitle(),
		Version: resp.GetVersion(),
		Commit:  resp.GetCommit(),
	}, nil
}

// API returns the underlying Qdrant SDK client for operations this
// package does not cover.
func (c *Client) API() *qdrant.Client {
	return c.api
}

// Close releases the gRPC connection.
func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	log.Println("[Qdrant] Closing client")
	return c.api.Close()
}

// requestContext applies the configured per-request timeout.
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}
