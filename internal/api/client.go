// Package api wraps the backend REST interface. Every request carries
// the Bearer token and X-Tenant-ID header resolved from the credential
// store; a 401 invokes the configured logout hook so screens can drop
// back to the login flow.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

// ErrAuthRequired is returned when no usable credentials exist or the
// server rejected the token. The logout hook has already run by the
// time callers see it.
var ErrAuthRequired = errors.New("api: authentication required")

// Credentials is what the client needs from the credential store.
type Credentials interface {
	Token() string
	CompanyCode() string
	Logout() error
}

type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client

	// onLogout lets the app react to forced logouts (session expiry).
	// Optional; creds.Logout is always called regardless.
	onLogout func()
}

func NewClient(baseURL string, creds Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{},
	}
}

// OnLogout registers a hook invoked after a forced logout.
func (c *Client) OnLogout(fn func()) {
	c.onLogout = fn
}

func (c *Client) logout() {
	if err := c.creds.Logout(); err != nil {
		logger.Warn().Err(err).Msg("Failed to clear credentials")
	}
	if c.onLogout != nil {
		c.onLogout()
	}
}

// request performs one API call and decodes the JSON response into out
// (when out is non-nil). Non-2xx statuses become errors carrying the
// server's message when one is present.
func (c *Client) request(method, endpoint string, body interface{}, out interface{}) error {
	token := c.creds.Token()
	companyCode := c.creds.CompanyCode()
	if token == "" || companyCode == "" {
		c.logout()
		return ErrAuthRequired
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Tenant-ID", companyCode)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("endpoint", endpoint).Msg("API request failed")
		return fmt.Errorf("api: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logout()
		return fmt.Errorf("%w: session expired", ErrAuthRequired)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		msg := ""
		if json.Unmarshal(raw, &payload) == nil {
			if payload.Message != "" {
				msg = payload.Message
			} else {
				msg = payload.Error
			}
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("api: %s %s: %s", method, endpoint, msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decoding response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) Get(endpoint string, out interface{}) error {
	return c.request(http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(endpoint string, body, out interface{}) error {
	return c.request(http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(endpoint string, body, out interface{}) error {
	return c.request(http.MethodPut, endpoint, body, out)
}

func (c *Client) Patch(endpoint string, body, out interface{}) error {
	return c.request(http.MethodPatch, endpoint, body, out)
}

func (c *Client) Delete(endpoint string) error {
	return c.request(http.MethodDelete, endpoint, nil, nil)
}
