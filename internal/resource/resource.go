// Package resource provides read-only clients for the catalog collection
// endpoints.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Endpoint paths served by the catalog API.
const (
	PathLibs  = "/libs"
	PathRepos = "/repos"
)

// Item is an opaque collection record.
type Item map[string]any

// Collection is the handle returned by Query. It starts empty and is filled
// in place once the response arrives.
type Collection struct {
	mu    sync.RWMutex
	items []Item
	err   error
	done  chan struct{}
}

func newCollection() *Collection {
	return &Collection{done: make(chan struct{})}
}

// Items returns a copy of the current items. It is empty while the fetch is
// pending and stays empty if the fetch failed.
func (c *Collection) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items currently held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Done is closed once the fetch has finished, successfully or not.
func (c *Collection) Done() <-chan struct{} { return c.done }

// Resolved reports whether Done has been closed.
func (c *Collection) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Err returns the fetch failure, if any. It is nil while pending.
func (c *Collection) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Collection) resolve(items []Item, err error) {
	c.mu.Lock()
	c.items = items
	c.err = err
	c.mu.Unlock()
	close(c.done)
}

// Client fetches one collection endpoint.
type Client struct {
	baseURL string
	path    string
	http    *http.Client
	onError func(path string, err error)
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithErrorHook registers fn to observe fetch failures from Query. Failures
// are otherwise only logged at debug level.
func WithErrorHook(fn func(path string, err error)) Option {
	return func(c *Client) { c.onError = fn }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for path under baseURL.
func New(baseURL, path string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Libs creates a client for the libs collection.
func Libs(baseURL string, opts ...Option) *Client {
	return New(baseURL, PathLibs, opts...)
}

// Repos creates a client for the repos collection.
func Repos(baseURL string, opts ...Option) *Client {
	return New(baseURL, PathRepos, opts...)
}

// Path returns the endpoint path this client reads.
func (c *Client) Path() string { return c.path }

// URL returns the full endpoint URL.
func (c *Client) URL() string { return c.baseURL + c.path }

// Query starts a fetch and returns its handle immediately. The fetch is
// bound to ctx; callers that must outlive a request should detach it first.
func (c *Client) Query(ctx context.Context) *Collection {
	col := newCollection()
	go func() {
		items, err := c.Fetch(ctx)
		if err != nil {
			c.logger.Debug("collection fetch failed", zap.String("url", c.URL()), zap.Error(err))
			if c.onError != nil {
				c.onError(c.path, err)
			}
			col.resolve(nil, err)
			return
		}
		col.resolve(items, nil)
	}()
	return col
}

// Fetch performs the GET synchronously.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", c.path, resp.StatusCode)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.path, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}
