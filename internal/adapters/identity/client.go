// Package identity implements the HTTP client for the external
// authentication provider (sign-in, token verification, token refresh).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"bmc-rentportal/internal/adapters/storage"
	"bmc-rentportal/internal/config"
)

// Client errors
var (
	// ErrConnectivity means the provider could not be reached at all
	// (DNS failure, refused connection, timeout).
	ErrConnectivity = errors.New("authentication service unreachable")

	// ErrSessionExpired means a 401 could not be recovered by the refresh
	// flow; the session has been cleared and the user must login again.
	ErrSessionExpired = errors.New("session expired, please login again")
)

// StatusError is a non-2xx HTTP response from the provider
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth provider returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auth provider returned %d", e.StatusCode)
}

// Client talks to the authentication provider. Every request carries the
// fixed application_id header and, when a token is present in durable
// storage, a bearer Authorization header. A 401 triggers at most one
// refresh-and-replay per original request.
type Client struct {
	baseURL string
	appID   string
	http    *http.Client
	store   storage.Store

	// onSessionExpired is invoked when the refresh flow fails; the session
	// service installs its teardown here.
	onSessionExpired func(ctx context.Context)
}

// New creates a new identity provider client
func New(cfg config.IdentityConfig, store storage.Store) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		appID:   cfg.AppID,
		http:    &http.Client{Timeout: timeout},
		store:   store,
	}
}

// SetSessionExpiredHandler installs the callback run when token refresh fails
func (c *Client) SetSessionExpiredHandler(fn func(ctx context.Context)) {
	c.onSessionExpired = fn
}

// SignIn authenticates against POST /sign-in and returns the raw response
// body for shape negotiation by the caller.
func (c *Client) SignIn(ctx context.Context, username, password string) ([]byte, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	return c.do(ctx, "/sign-in", payload, "")
}

// VerifyToken calls POST /verify_token with the token as bearer credential.
// Returns nil iff the provider answered 2xx; the body is ignored. No refresh
// retry is attempted: verification is a pure validity probe.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify_token", nil)
	if err != nil {
		return err
	}
	c.setCommonHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	return nil
}

// RefreshToken exchanges a refresh token for a new access token via
// POST /refresh-token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	payload := map[string]string{"refreshToken": refreshToken}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refresh-token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Message: messageFrom(respBody)}
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse refresh response failed: %w", err)
	}
	if result.AccessToken == "" {
		return "", errors.New("refresh response missing accessToken")
	}
	return result.AccessToken, nil
}

// do issues a JSON POST and returns the response body on 2xx. On a 401 it
// runs the refresh flow once and replays the original request with the new
// token; the retried flag prevents a second refresh from the replay's own 401.
func (c *Client) do(ctx context.Context, path string, payload interface{}, bearer string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	retried := false
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		c.setCommonHeaders(req)
		req.Header.Set("Content-Type", "application/json")

		token := bearer
		if token == "" {
			token, _ = c.store.Get(ctx, storage.KeyToken)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried {
			refreshToken, _ := c.store.Get(ctx, storage.KeyRefreshToken)
			if refreshToken != "" {
				newToken, refreshErr := c.RefreshToken(ctx, refreshToken)
				if refreshErr != nil {
					// Refresh failed: tear down the session and report the
					// forced logout to the caller.
					if c.onSessionExpired != nil {
						c.onSessionExpired(ctx)
					}
					return nil, ErrSessionExpired
				}
				// Only the access token key is rewritten on refresh success
				_ = c.store.Set(ctx, storage.KeyToken, newToken)
				bearer = newToken
				retried = true
				continue
			}
		}

		return nil, &StatusError{StatusCode: resp.StatusCode, Message: messageFrom(respBody)}
	}
}

// setCommonHeaders applies the headers carried by every outbound request
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("application_id", c.appID)
}

// readMessage extracts an optional {message} from an error response body
func readMessage(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return messageFrom(body)
}

func messageFrom(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}
