package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"staffdesk/internal/shared/apperror"

	"go.uber.org/zap"
)

// TokenSource supplies the current bearer token. An empty string means
// no session; requests then go out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is a thin REST client for the portal API. It speaks the wire
// contract directly: success bodies are raw records, error bodies are
// {code, error} documents decoded into *apperror.AppError.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger

	// OnUnauthorized fires after a 401 response to a request that
	// carried a bearer token, before the error is returned. The session
	// store hooks its logout here so a rejected token always resets
	// local state. A 401 from the credential endpoints never fires it;
	// a failed re-login must not destroy an existing session.
	OnUnauthorized func()
}

func NewClient(baseURL string, tokens TokenSource, logger ...*zap.Logger) *Client {
	l := zap.L().Named("portal.api")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("portal.api")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  l,
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}

// PostPublic sends a POST without a bearer token. Login and register
// go through here: they authenticate with credentials in the body, and
// a rejection must not be mistaken for an expired session.
func (c *Client) PostPublic(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

// errorBody matches the server's error contract.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, withAuth bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeInvalidInput, "could not encode request", http.StatusBadRequest)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidInput, "could not build request", http.StatusBadRequest)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	authed := false
	if withAuth {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			authed = true
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request transport failure", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeServiceUnavailable,
			"the service is unreachable, please try again", http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp, method, path, authed)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(err, apperror.CodeServiceUnavailable,
			"the service returned an unreadable response", http.StatusServiceUnavailable)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, method, path string, authed bool) error {
	var parsed errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &parsed)

	if parsed.Code == "" {
		parsed.Code = apperror.CodeInternalError
	}
	if parsed.Message == "" {
		parsed.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	c.logger.Warn("request rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("code", parsed.Code),
	)

	if resp.StatusCode == http.StatusUnauthorized && authed && c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}

	return apperror.New(parsed.Code, parsed.Message, resp.StatusCode)
}
