// Package client talks to the myai backend on behalf of the CLI: planning,
// catalog browsing, the cookie session and the server copy of the user's
// preferences.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/lk2023060901/myai/internal/auth"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"go.uber.org/zap"
)

// Client is safe for concurrent use.
type Client struct {
	config     *Config
	base       *url.URL
	httpClient *http.Client
	jar        *Jar
	logger     *logger.Logger

	refreshMu sync.Mutex
	// refreshGen counts successful refreshes; guarded by refreshMu.
	refreshGen uint64

	planMu     sync.Mutex
	planGen    atomic.Uint64
	planCancel context.CancelFunc
}

// New creates a backend client. Cookies live in jar.
func New(cfg *Config, jar *Jar, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Client{
		config: cfg,
		base:   base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			Jar:       jar,
			// The google login endpoint answers with a redirect we want to see.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		jar:    jar,
		logger: log.Named("client"),
	}, nil
}

// Close cancels a pending plan request and releases idle connections.
func (c *Client) Close() {
	c.planMu.Lock()
	if c.planCancel != nil {
		c.planCancel()
		c.planCancel = nil
	}
	c.planMu.Unlock()
	c.httpClient.CloseIdleConnections()
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// noRefresh disables the refresh-and-retry on 401.
	noRefresh bool
}

// do sends req and decodes a 2xx body into result. A 401 triggers one
// session refresh followed by one retry.
func (c *Client) do(ctx context.Context, req request, result any) error {
	var payload []byte
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	gen := c.refreshGeneration()
	status, data, err := c.send(ctx, req, payload)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized && !req.noRefresh {
		if rerr := c.refresh(ctx, gen); rerr != nil {
			c.logger.Debug("session refresh failed", zap.Error(rerr))
			return ErrNotSignedIn
		}
		status, data, err = c.send(ctx, req, payload)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return decodeError(status, data)
	}
	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, req request, payload []byte) (int, []byte, error) {
	u := c.base.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.method != http.MethodGet {
		if token, ok := c.jar.Value(u, auth.XSRFCookieName); ok {
			httpReq.Header.Set(auth.XSRFHeaderName, token)
		}
	}

	c.logger.Debug("request", zap.String("method", req.method), zap.String("url", u.String()))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("response", zap.String("url", u.String()), zap.Int("status", resp.StatusCode))
	return resp.StatusCode, data, nil
}

func (c *Client) refreshGeneration() uint64 {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshGen
}

// refresh exchanges the refresh cookie for a new access cookie. seen is the
// refresh generation observed before the failed request; when another
// caller refreshed since then the new cookie is already in the jar and no
// request is sent.
func (c *Client) refresh(ctx context.Context, seen uint64) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if c.refreshGen != seen {
		return nil
	}

	status, data, err := c.send(ctx, request{method: http.MethodPost, path: "/auth/refresh"}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return decodeError(status, data)
	}
	c.refreshGen++
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status, Body: string(bytes.TrimSpace(data))}
	_ = json.Unmarshal(data, apiErr)
	return apiErr
}

// envelope is the {code, data} wrapper of the preference endpoints.
type envelope[T any] struct {
	Code int `json:"code"`
	Data T   `json:"data"`
}
