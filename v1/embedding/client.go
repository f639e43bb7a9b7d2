package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client computes embeddings through an OpenAI-compatible /embeddings
// endpoint. It implements Generator.
type Client struct {
	baseURL      string
	serviceToken string
	model        string
	dimensions   uint64
	httpClient   *http.Client
	limiter      *rate.Limiter
}

var _ Generator = (*Client)(nil)

// NewClient constructs a Client from Config.
// Application code should depend on Generator, not on *Client.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	timeout := cfg.HTTPTimeoutS
	if timeout <= 0 {
		timeout = 30
	}

	c := &Client{
		// Remove trailing slash if user added it.
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		serviceToken: cfg.ServiceToken,
		model:        cfg.Model,
		dimensions:   cfg.Dimensions,
		httpClient:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c, nil
}

// Dimensions returns the configured vector length.
func (c *Client) Dimensions() uint64 {
	return c.dimensions
}

// Embed computes the embedding of a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := c.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedMany computes embeddings for all texts in one request.
// The result has the same length and order as texts.
func (c *Client) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding: rate limit wait: %w", err)
		}
	}

	reqBody := map[string]any{
		"model": c.model,
		"input": texts,
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	url := fmt.Sprintf("%s/embeddings", c.baseURL)
	if err := c.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	// The endpoint reports the input index of every item; do not rely on
	// response order.
	sort.SliceStable(parsed.Data, func(i, j int) bool {
		return parsed.Data[i].Index < parsed.Data[j].Index
	})

	out := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if c.dimensions > 0 && uint64(len(d.Embedding)) != c.dimensions {
			return nil, fmt.Errorf("embedding: item %d has %d dimensions, expected %d", i, len(d.Embedding), c.dimensions)
		}
		vec := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float32(f)
		}
		out[i] = vec
	}

	return out, nil
}

// Close releases idle HTTP connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
