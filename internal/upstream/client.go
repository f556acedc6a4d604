package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// maxErrorBody bounds how much of a failed upstream response is kept on APIError.
const maxErrorBody = 4 << 10

// Client talks to a single dependent HTTP API rooted at a base URL.
type Client struct {
	base       *url.URL
	reqTimeout time.Duration
	httpClient *http.Client
	// unreachable is set when the last request failed at the transport level.
	unreachable atomic.Bool
}

// New constructs a Client. reqTimeout of zero leaves deadlines to the caller's context.
func New(baseURL string, reqTimeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported upstream scheme: %q", u.Scheme)
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0: deadlines come from the request context.
	return &Client{
		base:       u,
		reqTimeout: reqTimeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}, nil
}

// BaseURL returns the configured upstream root.
func (c *Client) BaseURL() string { return c.base.String() }

// Ready reports whether the last request reached the upstream.
func (c *Client) Ready() bool { return !c.unreachable.Load() }

// Fetch issues GET <base>/<path>?<query> and returns the response body.
// Any non-2xx status yields an *APIError.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.reqTimeout)
		defer cancel()
	}
	target := c.resolve(path, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A caller hanging up says nothing about the upstream.
		if !errors.Is(ctx.Err(), context.Canceled) {
			c.unreachable.Store(true)
		}
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()
	c.unreachable.Store(false)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, ErrAPI(http.MethodGet, target, resp.StatusCode, b)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	return b, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()
	return u.String()
}
