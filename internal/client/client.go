// Package client talks to a running newsheat server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/newsheat/internal/domain/categorize"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/types"
)

const defaultTimeout = 30 * time.Second

// ErrStatus is returned when the server answers with an unexpected status.
var ErrStatus = errors.New("unexpected status")

// Ack is the server's answer to a submitted article.
type Ack struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	ID        string `json:"id"`
}

// Client is a small HTTP client for the newsheat API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	return drain(resp, http.StatusOK)
}

// Submit posts one article for ingestion. A 429 is returned as an error
// wrapping ErrStatus.
func (c *Client) Submit(ctx context.Context, a model.Article) (Ack, error) {
	resp, err := c.do(ctx, http.MethodPost, "/articles", a)
	if err != nil {
		return Ack{}, err
	}
	var ack Ack
	if err := decode(resp, &ack, http.StatusAccepted, http.StatusOK); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// Top returns the n highest scoring stored articles.
func (c *Client) Top(ctx context.Context, n int) ([]types.Entry, error) {
	resp, err := c.do(ctx, http.MethodGet, "/articles/top?limit="+strconv.Itoa(n), nil)
	if err != nil {
		return nil, err
	}
	var out []types.Entry
	if err := decode(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Grouped returns the n highest scoring stored articles in buckets.
func (c *Client) Grouped(ctx context.Context, n int) (categorize.Groups, error) {
	resp, err := c.do(ctx, http.MethodGet, "/articles/grouped?limit="+strconv.Itoa(n), nil)
	if err != nil {
		return nil, err
	}
	var out categorize.Groups
	if err := decode(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns stored articles whose title or summary contains q.
func (c *Client) Search(ctx context.Context, q string, limit int) ([]model.ScoredArticle, error) {
	path := "/articles/search?q=" + url.QueryEscape(q) + "&limit=" + strconv.Itoa(limit)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out []model.ScoredArticle
	if err := decode(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns the server's stats document.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	resp, err := c.do(ctx, http.MethodGet, "/stats", nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := decode(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decode(resp *http.Response, v any, want ...int) error {
	defer resp.Body.Close()
	if err := checkStatus(resp, want...); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response, want ...int) error {
	defer resp.Body.Close()
	if err := checkStatus(resp, want...); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response, want ...int) error {
	for _, code := range want {
		if resp.StatusCode == code {
			return nil
		}
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
}
