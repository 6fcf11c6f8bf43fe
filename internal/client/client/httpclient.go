package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/nexusauth/internal/client/models"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

const maxResponseBytes = 1 << 20

type HTTPClient struct {
	serverURL string
	http      *http.Client
}

// NewHTTPClient returns a client for the endpoint at serverURL
// (e.g. "http://127.0.0.1:8080/api/auth"). timeout bounds each request.
func NewHTTPClient(serverURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		serverURL: serverURL,
		http:      &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type validationData struct {
	Errors []validation.FieldError `json:"errors"`
}

type registerRequest struct {
	Action string `json:"action"`
	validation.Registration
}

type loginRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Action string `json:"action"`
	Token  string `json:"token"`
}

type lookupRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
}

type actionRequest struct {
	Action string `json:"action"`
}

func (c *HTTPClient) Register(ctx context.Context, form validation.Registration) (*models.Profile, error) {
	var p models.Profile
	if _, err := c.call(ctx, registerRequest{Action: "register", Registration: form}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Login(ctx context.Context, usernameOrEmail, password string) (*models.Profile, error) {
	var p models.Profile
	if _, err := c.call(ctx, loginRequest{Action: "login", Username: usernameOrEmail, Password: password}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Verify(ctx context.Context, token string) error {
	_, err := c.call(ctx, verifyRequest{Action: "verify", Token: token}, nil)
	return err
}

func (c *HTTPClient) GetUserData(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	if _, err := c.call(ctx, lookupRequest{Action: "getUserData", Username: username}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Ping(ctx context.Context) (string, error) {
	return c.call(ctx, actionRequest{Action: "test"}, nil)
}

// call posts payload and decodes data into out when out is non-nil. It
// returns the server's message on success.
func (c *HTTPClient) call(ctx context.Context, payload any, out any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if !env.Success {
		apiErr := &APIError{Message: env.Message}
		if hasData(env.Data) {
			var vd validationData
			if json.Unmarshal(env.Data, &vd) == nil {
				apiErr.FieldErrors = vd.Errors
			}
		}
		return "", apiErr
	}

	if out != nil && hasData(env.Data) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("%w: decode data: %v", ErrUnavailable, err)
		}
	}
	return env.Message, nil
}

func hasData(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
