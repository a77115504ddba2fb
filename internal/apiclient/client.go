// Package apiclient talks to the studio backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"studio-dashboard/internal/tokens"
)

const refreshEndpoint = "/auth/token/refresh/"

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout bounds each backend call. Zero means no timeout. It keeps a
// client set by WithHTTPClient and does not modify the caller's copy.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		h := *c.http
		h.Timeout = d
		c.http = &h
	}
}

// Client is bound to one token store. Use For to get a copy bound to the
// current request's session.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  tokens.Store
	log     *slog.Logger
	metrics *Metrics
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens.NewMemoryStore("", ""),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// For returns a shallow copy that reads and writes tokens through store.
func (c *Client) For(store tokens.Store) *Client {
	cp := *c
	cp.tokens = store
	return &cp
}

func (c *Client) Tokens() tokens.Store { return c.tokens }

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, true)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, true)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out, true)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPatch, endpoint, body, out, true)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out, true)
}

// do sends one request. When the backend answers 401 and refresh is allowed,
// the token is refreshed once and the request retried once.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, refresh bool) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		payload = b
	}

	status, respBody, err := c.send(ctx, method, endpoint, payload, c.tokens.AccessToken())
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && refresh {
		access, ok := c.refresh(ctx)
		if !ok {
			if err := c.tokens.Clear(); err != nil {
				c.log.Error("clear tokens", "err", err)
			}
			return ErrAuthRequired
		}
		status, respBody, err = c.send(ctx, method, endpoint, payload, access)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		apiErr := parseError(status, respBody)
		c.log.Warn("backend error",
			"method", method,
			"endpoint", endpoint,
			"status", status,
			"message", apiErr.Message,
			"request_id", RequestID(ctx),
		)
		return apiErr
	}

	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", requestIDOrNew(ctx))

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, endpoint, 0, time.Since(start))
		c.log.Error("backend unreachable", "method", method, "endpoint", endpoint, "err", err)
		return 0, nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	c.metrics.observe(method, endpoint, res.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s: %w", method, endpoint, err)
	}
	return res.StatusCode, respBody, nil
}

// refresh exchanges the stored refresh token for a new access token. The
// refresh token itself is kept.
func (c *Client) refresh(ctx context.Context) (string, bool) {
	rt := c.tokens.RefreshToken()
	if rt == "" {
		return "", false
	}

	payload, _ := json.Marshal(map[string]string{"refresh": rt})
	status, body, err := c.send(ctx, http.MethodPost, refreshEndpoint, payload, "")
	if err != nil {
		c.metrics.refresh(false)
		return "", false
	}

	var out struct {
		Access string `json:"access"`
	}
	if status < 200 || status >= 300 || json.Unmarshal(body, &out) != nil || out.Access == "" {
		c.metrics.refresh(false)
		c.log.Info("token refresh rejected", "status", status)
		return "", false
	}
	c.metrics.refresh(true)

	if err := c.tokens.SetTokens(out.Access, rt); err != nil {
		c.log.Error("store refreshed token", "err", err)
	}
	return out.Access, true
}

type requestIDKey struct{}

// WithRequestID tags ctx so backend calls carry the inbound request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestIDOrNew(ctx context.Context) string {
	if id := RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
