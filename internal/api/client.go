// Package api talks to the inventory system's auth and resource API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inventory-console/internal/domain"
)

// ErrUnreachable wraps transport failures where no HTTP response was received.
var ErrUnreachable = errors.New("api unreachable")

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	// Message is the server supplied msg/message field, if any.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api status %d", e.StatusCode)
}

// Client calls the remote API. A zero timeout means requests are bounded only by their context.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of POST /.
type LoginResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
	// Data is the display name of the signed-in user.
	Data string `json:"data"`
	Msg  string `json:"msg"`
}

type apiUser struct {
	ID        int64  `json:"idUsuario"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email"`
}

type usersResponse struct {
	Success bool      `json:"success"`
	Data    []apiUser `json:"data"`
	Message string    `json:"message"`
}

// Login posts the credentials. The decoded body is returned for any HTTP
// status so callers can read success and msg; a non-2xx status also yields a
// *StatusError.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return &out, &StatusError{StatusCode: status, Message: out.Msg}
	}
	return &out, nil
}

// ListUsers fetches GET /users with the bearer token. A 2xx response whose
// success flag is false is reported as a *StatusError carrying the status.
func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var out usersResponse
	status, err := c.doJSON(ctx, http.MethodGet, "/users", token, nil, &out)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 || !out.Success {
		return nil, &StatusError{StatusCode: status, Message: out.Message}
	}

	users := make([]domain.User, len(out.Data))
	for i, u := range out.Data {
		users[i] = domain.User{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		}
	}
	return users, nil
}

// CheckToken issues GET /users and reports only whether the status was 2xx.
func (c *Client) CheckToken(ctx context.Context, token string) error {
	status, err := c.doJSON(ctx, http.MethodGet, "/users", token, nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &StatusError{StatusCode: status}
	}
	return nil
}

// doJSON sends the request and decodes the body into result when it is JSON.
// Decoding failures are ignored for non-2xx responses since error bodies are optional.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && ok {
		return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
	}
	return resp.StatusCode, nil
}
