// Package ollama embeds color and alias names through an Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	// DefaultModel is the recommended embedding model
	DefaultModel = "nomic-embed-text"
	// DefaultURL is the default Ollama API endpoint
	DefaultURL = "http://localhost:11434"
	// DefaultTimeout bounds a single embedding request
	DefaultTimeout = 30 * time.Second
)

// Client wraps the Ollama API client
type Client struct {
	client *api.Client
	model  string
}

// NewClient creates a client for the server at rawURL. A nil httpClient
// uses one with DefaultTimeout.
func NewClient(rawURL, model string, httpClient *http.Client) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", rawURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama url %q: scheme and host are required", rawURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		client: api.NewClient(base, httpClient),
		model:  model,
	}, nil
}

// IsAvailable checks if Ollama is running and accessible
func IsAvailable(url string) bool {
	if url == "" {
		url = DefaultURL
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Embed returns one embedding vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("text %d cannot be empty", i)
		}
	}

	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	// Ollama returns float32 vectors
	out := make([][]float64, len(resp.Embeddings))
	for i, vec32 := range resp.Embeddings {
		vec := make([]float64, len(vec32))
		for j, v := range vec32 {
			vec[j] = float64(v)
		}
		out[i] = vec
	}
	return out, nil
}

// ErrModelNotFound is returned by CheckModel when the model is not pulled.
var ErrModelNotFound = errors.New("embedding model not found")

// CheckModel checks if the configured model is available. A model name
// without a tag matches its ":latest" variant.
func (c *Client) CheckModel(ctx context.Context) error {
	listResp, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range listResp.Models {
		if model.Name == c.model || model.Name == c.model+":latest" {
			return nil
		}
	}

	return fmt.Errorf("%w: '%s' - run: ollama pull %s", ErrModelNotFound, c.model, c.model)
}

// Model returns the model being used
func (c *Client) Model() string {
	return c.model
}
