// Package mail delivers transactional email through the hosted provider's
// REST API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/awards-service/internal/config"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// Message is a single outbound email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers messages. Implemented by Client; tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client talks to the email provider API.
type Client struct {
	apiKey     string
	baseURL    string
	from       string
	httpClient *http.Client
}

// NewClient constructs a mail client from configuration.
func NewClient(cfg config.MailConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.APIBaseURL, "/"),
		from:       cfg.FromAddress,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send delivers one message. A non-success provider response is an error;
// callers decide whether delivery failure is primary or best-effort.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return apperrors.NewConfigurationError("mail API key not configured")
	}
	if msg.From == "" {
		msg.From = c.from
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError("mail provider unreachable", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.NewUpstreamError(
			fmt.Sprintf("mail provider rejected delivery: %s", strings.TrimSpace(string(body))),
			resp.StatusCode, nil)
	}
	return nil
}
