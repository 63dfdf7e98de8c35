// Package eo is a client for a remote earth-observation imagery service. It
// turns a bounding rectangle plus output dimensions into composite image
// requests: synchronous archive downloads for local destinations, and
// fire-and-forget export tasks for bucket and drive destinations.
package eo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/example/go-eoget/eo/composite"
	internalhttp "github.com/example/go-eoget/eo/internal/http"
	"github.com/example/go-eoget/eo/model"
)

const (
	defaultBaseURL   = "https://api.example-earth.dev"
	defaultUserAgent = "go-eoget/0.1"

	downloadEndpoint  = "v1/images:download"
	exportEndpoint    = "v1/images:export"
	thumbnailEndpoint = "v1/images:thumbnail"
	tasksEndpoint     = "v1/tasks"
)

// Client provides access to the imagery service's composite, export, and
// thumbnail endpoints.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	auth       Authenticator
}

// NewClient creates a Client with sensible defaults.
func NewClient(opts ...Option) (*Client, error) {
	base, _ := url.Parse(defaultBaseURL)
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Result is the outcome of a composite fetch. Exactly one of BandFiles or
// Task is populated, depending on the request's destination.
type Result struct {
	// BandFiles lists the extracted per-band raster paths for a local
	// destination, in lexical order.
	BandFiles []string
	// Task references the asynchronous export job for bucket and drive
	// destinations. The fetch does not await its completion.
	Task *TaskHandle
}

// FetchComposite submits the image request with the given compositing rule.
//
// For a local destination the call blocks on the archive download and
// extraction and the Result carries the extracted band file paths. For bucket
// and drive destinations the call only submits the export task and returns
// its handle; completion must be observed separately via TaskHandle.Status.
func (c *Client) FetchComposite(ctx context.Context, req Request, rule composite.Rule, opts ...DownloadOption) (*Result, error) {
	encoded, err := rule.Encode()
	if err != nil {
		return nil, fmt.Errorf("eo: encode rule: %w", err)
	}
	if _, err := NewRequest(req.Rect, req.Pixels, req.Dest, req.Name); err != nil {
		return nil, err
	}

	switch dest := req.Dest.(type) {
	case LocalDestination:
		return c.fetchLocal(ctx, req, encoded, dest, opts...)
	case BucketDestination, DriveDestination:
		return c.submitExport(ctx, req, encoded)
	default:
		return nil, fmt.Errorf("eo: unsupported destination type %T", dest)
	}
}

func (c *Client) fetchLocal(ctx context.Context, req Request, rule url.Values, dest LocalDestination, opts ...DownloadOption) (*Result, error) {
	var resp model.DownloadResponse
	if err := c.postJSON(ctx, downloadEndpoint, req.wire(rule), &resp); err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, fmt.Errorf("eo: service returned no download URL")
	}

	cfg := downloadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.ensureDefaults()

	dir := dest.Dir
	if dir == "" {
		dir = "."
	}
	files, err := cfg.downloader.Fetch(ctx, c.httpClient, c.userAgent, c.resolveURL(resp.URL), dir)
	if err != nil {
		return nil, fmt.Errorf("eo: fetch archive: %w", err)
	}
	return &Result{BandFiles: files}, nil
}

func (c *Client) submitExport(ctx context.Context, req Request, rule url.Values) (*Result, error) {
	var envelope model.TaskEnvelope
	if err := c.postJSON(ctx, exportEndpoint, req.wire(rule), &envelope); err != nil {
		return nil, err
	}
	if envelope.Task.ID == "" {
		return nil, fmt.Errorf("eo: service returned no task ID")
	}
	return &Result{Task: c.Task(envelope.Task.ID)}, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("eo: encode request body: %w", err)
	}

	u := *c.baseURL
	u.Path = joinURLPath(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("eo: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.prepare(req); err != nil {
		return err
	}

	resp, err := internalhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		return fmt.Errorf("eo: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return internalhttp.HTTPError(resp)
	}
	return internalhttp.DecodeJSON(resp.Body, out)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	u := *c.baseURL
	u.Path = joinURLPath(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("eo: create request: %w", err)
	}
	if err := c.prepare(req); err != nil {
		return err
	}

	resp, err := internalhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		return fmt.Errorf("eo: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return internalhttp.HTTPError(resp)
	}
	return internalhttp.DecodeJSON(resp.Body, out)
}

func (c *Client) prepare(req *http.Request) error {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.auth != nil {
		if err := c.auth.Authenticate(req); err != nil {
			return fmt.Errorf("eo: authenticate request: %w", err)
		}
	}
	return nil
}

// resolveURL turns service-relative download URLs into absolute ones.
func (c *Client) resolveURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	return c.baseURL.ResolveReference(u).String()
}

func joinURLPath(basePath string, elems ...string) string {
	parts := make([]string, 0, len(elems)+1)
	trimmedBase := strings.Trim(basePath, "/")
	if trimmedBase != "" {
		parts = append(parts, trimmedBase)
	}
	for _, elem := range elems {
		trimmed := strings.Trim(elem, "/")
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return "/" + path.Join(parts...)
}
