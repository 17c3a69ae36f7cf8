package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
	"github.com/google/uuid"
)

const maxResponseBytes = 4 << 20

const (
	headerRequestID     = "X-Request-ID"
	headerAuthorization = "Authorization"
)

// TokenSource yields the bearer token for the next request. An empty token sends no header.
type TokenSource interface {
	Get(ctx context.Context, key string) (string, error)
}

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Tokens         TokenSource
	Logger         *slog.Logger
}

var _ ports.ResourceClient = (*Client)(nil)

func (c *Client) Do(ctx context.Context, req ports.Request) (domain.Envelope, error) {
	body, err := c.send(ctx, req)
	if err != nil {
		return domain.Envelope{}, err
	}

	var envelope domain.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.Envelope{}, fmt.Errorf("decode envelope from %s: %w", req.Path, err)
	}
	return envelope, nil
}

func (c *Client) Raw(ctx context.Context, req ports.Request) (json.RawMessage, error) {
	body, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode response from %s: invalid json", req.Path)
	}
	return json.RawMessage(body), nil
}

func (c *Client) send(ctx context.Context, req ports.Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoint, err := buildURL(c.BaseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var payload io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)
	if token := c.token(ctx); token != "" {
		httpReq.Header.Set(headerAuthorization, "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		c.logger().Warn("request failed",
			slog.String("method", method),
			slog.String("path", req.Path),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return nil, &domain.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	c.logger().Debug("request completed",
		slog.String("method", method),
		slog.String("path", req.Path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Msg: errorMessage(body)}
	}
	return body, nil
}

func (c *Client) token(ctx context.Context) string {
	if c.Tokens == nil {
		return ""
	}
	token, err := c.Tokens.Get(ctx, domain.StorageKeyToken)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			c.logger().Warn("read token for request", slog.Any("error", err))
		}
		return ""
	}
	return token
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// errorMessage pulls msg (or message) out of an error body. Non-JSON bodies yield "".
func errorMessage(body []byte) string {
	var payload struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Msg != "" {
		return payload.Msg
	}
	return payload.Message
}

// buildURL appends path to the base URL verbatim so the base path prefix and any
// escaping already present in path survive.
func buildURL(baseURL string, path string, query url.Values) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if base.Host == "" {
		return "", errors.New("api base url host is required")
	}

	joined := strings.TrimRight(base.Scheme+"://"+base.Host+base.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	endpoint, err := url.Parse(joined)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}
