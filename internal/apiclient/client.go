// Package apiclient is the HTTP layer of the job board client. It attaches the bearer token,
// caches GET responses, retries idempotent calls and normalizes every failure into an APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/cache"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/retry"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
)

// RequestIDHeader carries a per request uuid
const RequestIDHeader = "X-Request-ID"

// Default values used when Options leave a field empty
const (
	DefaultTimeout  = 10 * time.Second
	DefaultCacheTTL = 5 * time.Minute
)

// Options configure a Client
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Retry    retry.Policy
	// Transport replaces the default round tripper, used by tests
	Transport http.RoundTripper
}

// Client talks to the job board REST API
type Client struct {
	http     *resty.Client
	baseURL  string
	cache    *cache.Store[[]byte]
	store    storage.Store
	policy   retry.Policy
	cacheTTL time.Duration

	mu         sync.Mutex
	logoutSubs map[int]func()
	nextSubID  int
}

// New creates a Client, store provides the bearer token and responseCache is shared across clients
func New(opts Options, store storage.Store, responseCache *cache.Store[[]byte]) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultPolicy
	}
	if responseCache == nil {
		responseCache = cache.New[[]byte](cache.DefaultCleanUpInterval)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		cache:      responseCache,
		store:      store,
		policy:     opts.Retry,
		cacheTTL:   opts.CacheTTL,
		logoutSubs: make(map[int]func()),
	}

	rc := resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}
	rc.OnBeforeRequest(c.attachHeaders)
	rc.OnAfterResponse(c.checkUnauthorized)
	c.http = rc

	return c
}

func (c *Client) attachHeaders(_ *resty.Client, r *resty.Request) error {
	if token := storage.GetString(c.store, storage.KeyAuthToken); token != "" {
		r.SetAuthToken(token)
	}
	if r.Header.Get(RequestIDHeader) == "" {
		r.SetHeader(RequestIDHeader, uuid.NewString())
	}
	return nil
}

// checkUnauthorized drops the stored tokens on any 401 and tells subscribers
func (c *Client) checkUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	log.Printf("Unauthorized response from %s %s, clearing session", resp.Request.Method, resp.Request.URL)
	if err := c.store.Remove(storage.KeyAuthToken, storage.KeyRefreshToken); err != nil {
		log.Printf("failed to clear tokens: %v", err)
	}
	c.emitLogout()
	return nil
}

// OnLogout registers fn to run whenever a 401 forces a logout, the returned func unsubscribes
func (c *Client) OnLogout(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.logoutSubs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.logoutSubs, id)
	}
}

func (c *Client) emitLogout() {
	c.mu.Lock()
	subs := make([]func(), 0, len(c.logoutSubs))
	for _, fn := range c.logoutSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// InvalidateCache drops cached responses under path
func (c *Client) InvalidateCache(path string) int {
	return c.cache.InvalidatePrefix(c.URL(path))
}

// URL returns the absolute URL of path
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Get fetches path with params into out, serving from the cache when a fresh entry exists
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any, opts ...CallOption) error {
	cfg := c.callConfig(http.MethodGet, opts)

	var key string
	if !cfg.noCache {
		key = c.cacheKey(path, params)
		if body, ok := c.cache.Get(key); ok {
			return decode(path, body, out)
		}
	}

	body, _, err := c.execute(ctx, http.MethodGet, path, cfg, func(r *resty.Request) {
		if len(params) > 0 {
			r.SetQueryParamsFromValues(params)
		}
	})
	if err != nil {
		return err
	}

	if !cfg.noCache {
		c.cache.Set(key, body, cfg.ttl)
	}
	return decode(path, body, out)
}

func (c *Client) cacheKey(path string, params url.Values) string {
	if len(params) == 0 {
		return cache.Key(c.URL(path), nil)
	}
	return cache.Key(c.URL(path), params)
}

// Post sends body as JSON and decodes the response into out
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.send(ctx, http.MethodPost, path, body, out, opts)
}

// Put sends body as JSON and decodes the response into out
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.send(ctx, http.MethodPut, path, body, out, opts)
}

// Patch sends body as JSON and decodes the response into out
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.send(ctx, http.MethodPatch, path, body, out, opts)
}

// Delete calls path with DELETE, out may be nil
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.send(ctx, http.MethodDelete, path, nil, out, opts)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, opts []CallOption) error {
	cfg := c.callConfig(method, opts)
	respBody, _, err := c.execute(ctx, method, path, cfg, func(r *resty.Request) {
		if body != nil {
			r.SetHeader("Content-Type", "application/json").SetBody(body)
		}
	})
	if err != nil {
		return err
	}
	c.invalidate(cfg)
	return decode(path, respBody, out)
}

// Upload posts a multipart form with one file part under field plus the given form fields
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, form map[string]string, out any, opts ...CallOption) error {
	// buffered so a retry can send the same bytes again
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload %s: %w", filename, err)
	}

	cfg := c.callConfig(http.MethodPost, opts)
	respBody, _, err := c.execute(ctx, http.MethodPost, path, cfg, func(r *resty.Request) {
		r.SetFileReader(field, filename, bytes.NewReader(data))
		if len(form) > 0 {
			r.SetFormData(form)
		}
	})
	if err != nil {
		return err
	}
	c.invalidate(cfg)
	return decode(path, respBody, out)
}

// Download fetches raw bytes of path, it is never cached
func (c *Client) Download(ctx context.Context, path string, opts ...CallOption) ([]byte, string, error) {
	cfg := c.callConfig(http.MethodGet, opts)
	body, header, err := c.execute(ctx, http.MethodGet, path, cfg, func(r *resty.Request) {
		r.SetHeader("Accept", "*/*")
	})
	if err != nil {
		return nil, "", err
	}
	return body, header.Get("Content-Type"), nil
}

func (c *Client) invalidate(cfg callConfig) {
	for _, prefix := range cfg.invalidates {
		c.InvalidateCache(prefix)
	}
}

// execute runs one logical call through the retry policy, build is applied to every fresh request
func (c *Client) execute(ctx context.Context, method, path string, cfg callConfig, build func(r *resty.Request)) ([]byte, http.Header, error) {
	type result struct {
		body   []byte
		header http.Header
	}

	res, err := retry.Do(ctx, cfg.policy, func(ctx context.Context) (result, error) {
		requestID := uuid.NewString()
		r := c.http.R().SetContext(ctx).SetHeader(RequestIDHeader, requestID)
		build(r)

		resp, err := r.Execute(method, path)
		if err != nil {
			return result{}, transportError(ctx, err, requestID)
		}
		if resp.IsError() {
			return result{}, newHTTPError(resp.StatusCode(), resp.Body(), requestID)
		}
		return result{body: resp.Body(), header: resp.Header()}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return res.body, res.header, nil
}

func transportError(ctx context.Context, err error, requestID string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("request cancelled: %w", ctxErr)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newTransportError(KindTimeout, err, requestID)
	}
	return newTransportError(KindNetwork, err, requestID)
}

func decode(path string, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = append((*raw)[:0], body...)
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response of %s: %w", path, err)
	}
	return nil
}
