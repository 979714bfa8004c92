// Package probe implements the raw Telegram Bot API probes used to verify
// a bot credential and channel setup. Responses are kept as raw JSON so
// failure payloads from the API are printed exactly as received.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot/models"
)

// Client issues probe requests against the Telegram Bot API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a probe client for the given API base URL and bot token.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("component", "probe"),
	}
}

// Result holds the outcome of a single probe request. The body is kept
// raw; any HTTP status is a valid result, only transport failures are
// reported as errors.
type Result struct {
	Method     string
	StatusCode int
	Body       json.RawMessage
	Duration   time.Duration
}

// envelope mirrors the Bot API response wrapper.
type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// OK reports whether the API accepted the request, i.e. the response
// body parsed as a Bot API envelope with ok=true.
func (r *Result) OK() bool {
	var env envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return false
	}
	return env.OK
}

// Description returns the API error description, if any.
func (r *Result) Description() string {
	var env envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return ""
	}
	return env.Description
}

// BotUser decodes a getMe result payload into a Telegram user.
func (r *Result) BotUser() (*models.User, error) {
	var env envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response envelope: %w", err)
	}
	if !env.OK {
		return nil, fmt.Errorf("api error: %s", env.Description)
	}
	var user models.User
	if err := json.Unmarshal(env.Result, &user); err != nil {
		return nil, fmt.Errorf("failed to parse bot user: %w", err)
	}
	return &user, nil
}

// Pretty returns the response body re-indented with two-space
// indentation. A body that is not valid JSON is an error.
func (r *Result) Pretty() (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Body, "", "  "); err != nil {
		return "", fmt.Errorf("response body is not valid JSON: %w", err)
	}
	return buf.String(), nil
}

// sendMessageRequest is the JSON body of a sendMessage call. The chat ID
// is carried verbatim from configuration, string or numeric alike.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// GetMe issues a single GET to the identity-check endpoint. No retry.
func (c *Client) GetMe(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL("getMe"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build getMe request: %w", err)
	}
	return c.do(req, "getMe")
}

// SendMessage issues a single POST to the message-send endpoint with the
// given chat ID and text. No retry, no delivery confirmation beyond the
// API's immediate response.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*Result, error) {
	return c.post(ctx, sendMessageRequest{ChatID: chatID, Text: text})
}

// SendAlert sends an HTML-formatted alert message. Used by watch mode.
func (c *Client) SendAlert(ctx context.Context, chatID, html string) (*Result, error) {
	return c.post(ctx, sendMessageRequest{ChatID: chatID, Text: html, ParseMode: "HTML"})
}

func (c *Client) post(ctx context.Context, body sendMessageRequest) (*Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sendMessage body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "sendMessage")
}

func (c *Client) do(req *http.Request, method string) (*Result, error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	result := &Result{
		Method:     method,
		StatusCode: resp.StatusCode,
		Body:       body,
		Duration:   time.Since(start),
	}

	c.logger.Debug("probe request finished",
		"method", method,
		"status", resp.StatusCode,
		"duration", result.Duration)

	return result, nil
}

// methodURL substitutes the token verbatim into the request path.
func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}
