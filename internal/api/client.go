// Package api is the typed HTTP client for the fact-checking backend.
// It is the only place that touches the wire, and it keeps the two
// failure classes apart: a transport failure (nothing came back) is an
// ordinary wrapped error, while a received error response decodes into
// a *StatusError carrying the backend's detail message. Callers fold
// either into user-facing text with UserMessage.
package api

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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenericFailureMessage is shown when the backend could not be
// reached at all, or returned an error without a detail field.
const GenericFailureMessage = "Failed to connect to the server."

// StatusError is an application-level failure: the backend responded,
// but with a non-2xx status. Detail is the backend's own message when
// it sent one.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// UserMessage converts any error from this package into the string
// shown to the user: backend detail when the backend spoke, a generic
// connectivity message when it did not.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return GenericFailureMessage
}

// Client talks to one backend instance. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a client for the backend at baseURL. The timeout bounds
// every request; expiry comes back as a transport failure. A nil
// logger is replaced with a nop logger.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Login upserts or resolves an identity. Called with a full profile on
// sign-in and with only the email when resolving the backend id.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*UserRecord, error) {
	var user UserRecord
	if err := c.postJSON(ctx, "/auth/login", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Check submits one conversation turn for the given backend user id.
func (c *Client) Check(ctx context.Context, userID int, req CheckRequest) (*CheckResponse, error) {
	path := "/check?user_id=" + strconv.Itoa(userID)
	var resp CheckResponse
	if err := c.postJSON(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchArticles runs a keyword search over the article index.
func (c *Client) SearchArticles(ctx context.Context, keyword string) ([]Article, error) {
	path := "/search/articles?query=" + url.QueryEscape(keyword)
	var resp searchResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("req", reqID),
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("req", reqID),
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// statusError reads the error body, preferring the backend's
// structured {detail} shape and falling back to raw text.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &StatusError{Code: resp.StatusCode, Detail: payload.Detail}
	}
	return &StatusError{Code: resp.StatusCode, Detail: string(bytes.TrimSpace(body))}
}
