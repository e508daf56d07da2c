// Package remote implements the client for the skill backup service. The
// backup is a single JSON document; fetching, creating, and updating it are
// the only operations. Concurrent writers are not coordinated: the store is
// last-writer-wins, and callers are expected to serialize runs against the
// same document.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skillvault/skillvault/internal/logging"
	"github.com/skillvault/skillvault/internal/plan"
)

// ErrNotFound indicates the backup document does not exist yet.
var ErrNotFound = errors.New("remote backup not found")

// TokenSource supplies the bearer token for backup service requests. An
// empty token means unauthenticated access.
type TokenSource interface {
	Token() (string, error)
}

// statusError carries a non-2xx response status for retry classification.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("remote returned %d: %s", e.code, e.body)
	}
	return fmt.Sprintf("remote returned %d", e.code)
}

// IsRetryable reports whether an error is worth retrying: transport errors
// and 5xx responses are; 4xx responses and ErrNotFound are not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Client talks to the backup service.
type Client struct {
	baseURL  string
	document string
	tokens   TokenSource
	http     *http.Client
}

// NewClient creates a backup client for the given document.
func NewClient(baseURL, document string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		document: document,
		tokens:   tokens,
		http:     &http.Client{Timeout: timeout},
	}
}

// Document returns the backup document name this client targets.
func (c *Client) Document() string {
	return c.document
}

func (c *Client) url() string {
	return c.baseURL + "/v1/backups/" + c.document
}

// Fetch retrieves the backup payload. Returns ErrNotFound when the document
// does not exist yet.
func (c *Client) Fetch(ctx context.Context) (*plan.Payload, error) {
	logging.Debug("fetching remote backup", logging.URL(c.url()), logging.Operation("fetch"))

	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var payload plan.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode backup payload: %w", err)
	}

	logging.Debug("fetched remote backup",
		logging.Count(len(payload.Skills)),
		logging.Operation("fetch"),
	)
	return &payload, nil
}

// Create writes a new backup document.
func (c *Client) Create(ctx context.Context, payload *plan.Payload) error {
	logging.Debug("creating remote backup",
		logging.URL(c.url()),
		logging.Operation("create"),
		logging.Count(len(payload.Skills)),
	)
	_, err := c.do(ctx, http.MethodPost, payload)
	return err
}

// Update overwrites the backup document. The service has no compare-and-swap
// protocol; the last writer wins.
func (c *Client) Update(ctx context.Context, payload *plan.Payload) error {
	logging.Debug("updating remote backup",
		logging.URL(c.url()),
		logging.Operation("update"),
		logging.Count(len(payload.Skills)),
	)
	_, err := c.do(ctx, http.MethodPut, payload)
	return err
}

// do issues one request and maps the response status onto the error taxonomy.
func (c *Client) do(ctx context.Context, method string, payload *plan.Payload) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode backup payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("authentication failed (%d): run `skillvault login`", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &statusError{code: resp.StatusCode, body: trimBody(body)}
	}
	return body, nil
}

func trimBody(body []byte) string {
	const maxLen = 200
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
