// Package provider implements the HTTP client for the remote schema/identity
// service: user creation keys the session, form retrieval supplies its
// schema. Both failure modes surface the server's human-readable message so
// the caller can report it and return to the login surface.
package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/model"
)

const (
	createUserPath = "/create-user"
	getFormPath    = "/get-form"
)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The configured request
// timeout still applies when the supplied client has none.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// Client talks to the dynamic-form provider.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client from configuration.
func New(cfg Config, options ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("provider: invalid base url %q: %w", cfg.BaseURL, err)
	}

	c := &Client{baseURL: base}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.http == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c, nil
}

// NewFromEnv builds a Client using envdecode-populated configuration.
func NewFromEnv(options ...Option) (*Client, error) {
	return New(ConfigFromEnv(), options...)
}

// CreateUser registers the identifier pair with the provider. Success yields
// the identity used to key schema retrieval; failure keeps the user on the
// login surface.
func (c *Client) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if user.RollNumber == "" || user.Name == "" {
		return model.User{}, errors.New("provider: roll number and name are required")
	}

	body, err := json.Marshal(user)
	if err != nil {
		return model.User{}, fmt.Errorf("provider: encode user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createUserPath, bytes.NewReader(body))
	if err != nil {
		return model.User{}, fmt.Errorf("provider: create-user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.User{}, fmt.Errorf("provider: create-user: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.User{}, fmt.Errorf("provider: read create-user response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.User{}, responseError("create user", resp, payload)
	}
	return user, nil
}

// FetchForm retrieves the form schema for a roll number and validates its
// shape. Implements session.SchemaProvider.
func (c *Client) FetchForm(ctx context.Context, rollNumber string) (model.Form, error) {
	if rollNumber == "" {
		return model.Form{}, errors.New("provider: roll number is required")
	}

	endpoint := c.baseURL + getFormPath + "?rollNumber=" + url.QueryEscape(rollNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Form{}, fmt.Errorf("provider: get-form request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Form{}, fmt.Errorf("provider: get-form: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Form{}, fmt.Errorf("provider: read get-form response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Form{}, responseError("fetch form", resp, payload)
	}

	var envelope model.Response
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return model.Form{}, fmt.Errorf("provider: decode form: %w", err)
	}
	if err := model.Validate(envelope.Form); err != nil {
		return model.Form{}, fmt.Errorf("provider: malformed form: %w", err)
	}
	return envelope.Form, nil
}

// responseError prefers the server's message field over a bare status line.
func responseError(op string, resp *http.Response, payload []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		return fmt.Errorf("provider: %s: %s", op, body.Message)
	}
	return fmt.Errorf("provider: %s: unexpected status %s", op, resp.Status)
}
