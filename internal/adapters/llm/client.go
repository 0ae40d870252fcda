// Package llm scores articles with a hosted language model.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/newsheat/internal/domain/batch"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/pkg/logger"
	"github.com/okian/newsheat/pkg/metrics"
)

const (
	defaultTimeout  = 15 * time.Second
	maxErrorBody    = 512
	maxResponseBody = 1 << 20
)

var _ batch.ModelScorer = (*Client)(nil)

// Client implements batch.ModelScorer for one provider.
type Client struct {
	provider provider
	apiKey   string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	logger   logger.Logger
}

// New creates a client for provider ("anthropic" or "openai").
func New(providerName, apiKey string, opts ...Option) (*Client, error) {
	p, ok := lookupProvider(providerName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		provider: p,
		apiKey:   apiKey,
		timeout:  defaultTimeout,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		logger:   logger.Get().Named("llm"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// Provider returns the provider name.
func (c *Client) Provider() string { return c.provider.name }

// Model returns the model the client asks for.
func (c *Client) Model() string { return c.provider.model }

// ScoreArticle asks the model to score a. Any transport, status or decoding
// problem is returned as an error.
func (c *Client) ScoreArticle(ctx context.Context, a model.Article) (batch.ModelResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return batch.ModelResult{}, fmt.Errorf("rate limiter: %w", err)
	}

	text, err := c.complete(ctx, buildPrompt(a.Title, a.Summary))
	if err != nil {
		return batch.ModelResult{}, err
	}

	res, err := ParseResult(text)
	if err != nil {
		c.logger.Debug(ctx, "unusable model answer",
			logger.String("provider", c.provider.name),
			logger.String("article_id", a.ID),
			logger.Error(err),
		)
		return batch.ModelResult{}, err
	}
	return res, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(c.provider.buildBody(c.provider.model, prompt))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.baseURL+c.provider.path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordModelRequest(c.provider.name, 0, float64(time.Since(start).Milliseconds()))
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	metrics.RecordModelRequest(c.provider.name, resp.StatusCode, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(respBody)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrModelStatus, resp.StatusCode, snippet)
	}

	text, err := c.provider.parseResponse(respBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelResponse, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty content", ErrModelResponse)
	}
	return text, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.provider.authHeader, c.provider.authPrefix+c.apiKey)
	for k, v := range c.provider.extraHeaders {
		req.Header.Set(k, v)
	}
}
