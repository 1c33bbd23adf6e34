// Package figma is a small read-only client for the Figma REST API.
package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultURL is the Figma REST API endpoint
	DefaultURL = "https://api.figma.com"
	// DefaultTimeout bounds every request made by the client
	DefaultTimeout = 60 * time.Second

	tokenHeader  = "X-Figma-Token"
	maxErrorBody = 4096
)

// ErrNodeNotFound is returned when a requested node is absent from a response.
var ErrNodeNotFound = errors.New("node not found")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("figma API error %d: %s", e.StatusCode, e.Body)
}

// FileInfo is the metadata of a Figma file.
type FileInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	LastModified string `json:"lastModified"`
}

// Client issues authenticated requests against the Figma API.
type Client struct {
	baseURL  string
	token    string
	api      *http.Client
	download *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultURL and a zero
// timeout uses DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		api: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		download: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > 1 {
					return fmt.Errorf("stopped after one redirect")
				}
				return nil
			},
		},
	}, nil
}

// FileInfo fetches the version and modification time of a file.
func (c *Client) FileInfo(ctx context.Context, fileKey string) (*FileInfo, error) {
	var info FileInfo
	query := url.Values{"depth": {"1"}}
	if err := c.get(ctx, "/v1/files/"+url.PathEscape(fileKey), query, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch file info: %w", err)
	}
	return &info, nil
}

type nodesResponse struct {
	Nodes map[string]*struct {
		Document json.RawMessage `json:"document"`
	} `json:"nodes"`
}

// Nodes fetches the subtrees of the given node ids. Ids the API does not
// return are absent from the map.
func (c *Client) Nodes(ctx context.Context, fileKey string, ids ...string) (map[string]Node, error) {
	var resp nodesResponse
	query := url.Values{"ids": {strings.Join(ids, ",")}}
	if err := c.get(ctx, "/v1/files/"+url.PathEscape(fileKey)+"/nodes", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch nodes: %w", err)
	}

	nodes := make(map[string]Node, len(resp.Nodes))
	for id, entry := range resp.Nodes {
		if entry == nil || len(entry.Document) == 0 || string(entry.Document) == "null" {
			continue
		}
		node, err := DecodeNode(entry.Document)
		if err != nil {
			return nil, fmt.Errorf("failed to decode node %s: %w", id, err)
		}
		nodes[id] = node
	}
	return nodes, nil
}

// Frame fetches a single node subtree and fails if it is missing.
func (c *Client) Frame(ctx context.Context, fileKey, nodeID string) (Node, error) {
	nodes, err := c.Nodes(ctx, fileKey, nodeID)
	if err != nil {
		return nil, err
	}
	node, ok := nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("could not find frame with node-id %s: %w", nodeID, ErrNodeNotFound)
	}
	return node, nil
}

type imagesResponse struct {
	Err    *string            `json:"err"`
	Images map[string]*string `json:"images"`
}

// ExportURLs requests rendered export URLs for the given ids. Ids without a
// URL are omitted from the result.
func (c *Client) ExportURLs(ctx context.Context, fileKey string, ids []string, format string) (map[string]string, error) {
	var resp imagesResponse
	query := url.Values{
		"ids":    {strings.Join(ids, ",")},
		"format": {format},
	}
	if err := c.get(ctx, "/v1/images/"+url.PathEscape(fileKey), query, &resp); err != nil {
		return nil, fmt.Errorf("failed to request exports: %w", err)
	}
	if resp.Err != nil && *resp.Err != "" {
		return nil, fmt.Errorf("export request failed: %s", *resp.Err)
	}

	urls := make(map[string]string, len(resp.Images))
	for id, u := range resp.Images {
		if u != nil && *u != "" {
			urls[id] = *u
		}
	}
	return urls, nil
}

// Download copies the body at rawURL into w. One redirect hop is followed.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read download body: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.api.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
