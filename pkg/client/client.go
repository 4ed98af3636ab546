package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TokenSource yields the bearer token to attach, or "" to send the request
// unauthenticated. It is consulted on every request.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithReadCache caches public catalog and blog reads for ttl, rounded up to
// whole seconds. A ttl of zero leaves caching off.
func WithReadCache(ttl time.Duration, sizeMB int) Option {
	return func(c *Client) {
		if ttl <= 0 {
			return
		}
		if sizeMB <= 0 {
			sizeMB = 8
		}
		c.cache = freecache.NewCache(sizeMB * 1024 * 1024)
		c.cacheTTL = expireSeconds(ttl)
	}
}

// Client is the shop API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	cache      *freecache.Cache
	// cacheTTL is in seconds; freecache reads 0 as "never expire"
	cacheTTL int
}

// New creates a new API client. tokens may be nil for a client that never
// authenticates.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func expireSeconds(ttl time.Duration) int {
	return max(int(math.Ceil(ttl.Seconds())), 1)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PurgeCache drops every cached read.
func (c *Client) PurgeCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

type request struct {
	method string
	path   string
	body   any
	out    any
	// anonymous requests never carry the bearer token
	anonymous bool
	header    http.Header
	// rawBody and contentType bypass JSON encoding (multipart uploads)
	rawBody     io.Reader
	contentType string
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, out: out})
}

// getCached serves path from the read cache when possible.
func (c *Client) getCached(ctx context.Context, path string, out any) error {
	if c.cache == nil {
		return c.get(ctx, path, out)
	}
	if data, err := c.cache.Get([]byte(path)); err == nil {
		if err := json.Unmarshal(data, out); err == nil {
			log.Tracef("client: cache hit %s", path)
			return nil
		}
	}
	var raw json.RawMessage
	if err := c.get(ctx, path, &raw); err != nil {
		return err
	}
	if err := c.cache.Set([]byte(path), raw, c.cacheTTL); err != nil {
		log.Debugf("client: cache set %s: %s", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body, out: out})
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	return c.do(ctx, request{method: method, path: path, body: body, out: out})
}

func (c *Client) do(ctx context.Context, r request) error {
	reqBody := r.rawBody
	if reqBody == nil && r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	switch {
	case r.contentType != "":
		req.Header.Set("Content-Type", r.contentType)
	case r.body != nil:
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if !r.anonymous && c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debugf("client: %s %s [%s] failed: %s", r.method, r.path, requestID, err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close
	log.Debugf("client: %s %s [%s] -> %d in %s", r.method, r.path, requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		return readHTTPError(resp)
	}

	if r.method != http.MethodGet {
		c.PurgeCache()
	}

	if r.out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func readHTTPError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		if apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		if apiErr.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
	}
	msg := strings.TrimSpace(string(respBody))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}
