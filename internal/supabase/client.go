package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/llsaimur/papertrails/internal/config"
)

// User is the identity record the auth provider returns. ID becomes the
// owner id on every locally stored record.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// AuthError carries a failed auth-provider response.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("supabase: request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to a GoTrue-compatible auth provider. It only provides the
// identity used as owner id elsewhere; session handling stays with the
// caller.
type Client interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SendPasswordReset(ctx context.Context, email string) error
	// UpdateEmail changes the email on the account behind the user's own
	// access token.
	UpdateEmail(ctx context.Context, userToken, newEmail string) (*User, error)
}

type httpClient struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient validates the auth provider configuration up front and returns a
// ready-to-use client. Misconfiguration is a startup error, not a deferred
// lazy-initialization failure.
func NewClient(cfg config.SupabaseConfig) (Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase anon key is required")
	}
	return &httpClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *httpClient) SignUp(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.post(ctx, "/auth/v1/signup", c.anonKey, map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *httpClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.post(ctx, "/auth/v1/token?grant_type=password", c.anonKey, map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *httpClient) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/v1/recover", c.anonKey, map[string]string{"email": email}, nil)
}

func (c *httpClient) UpdateEmail(ctx context.Context, userToken, newEmail string) (*User, error) {
	var user User
	err := c.send(ctx, http.MethodPut, "/auth/v1/user", userToken, map[string]string{"email": newEmail}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *httpClient) post(ctx context.Context, path, bearer string, payload, out any) error {
	return c.send(ctx, http.MethodPost, path, bearer, payload, out)
}

func (c *httpClient) send(ctx context.Context, method, path, bearer string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of the GoTrue error
// body, which uses either "error_description" or "msg" depending on the
// endpoint.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.ErrorDescription != "" {
			return body.ErrorDescription
		}
		if body.Msg != "" {
			return body.Msg
		}
	}
	return string(raw)
}
