package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sandeepkv93/checkd/internal/views"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20

	notModified = "message is not modified"
)

var ErrMissingToken = errors.New("telegram: bot token is required")

// APIError is a Bot API response with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s failed (%d): %s", e.Method, e.Code, e.Description)
}

type ClientConfig struct {
	Token   string
	BaseURL string
	// RatePerSecond caps outbound calls; zero disables throttling.
	RatePerSecond float64
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Client talks to the Bot API. Failed calls are returned, never retried.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		token:   cfg.Token,
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
		logger:  logger.With("component", "telegram"),
	}, nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text})
}

func (c *Client) SendControls(ctx context.Context, chatID int64, payload views.Payload) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:      chatID,
		Text:        payload.Text(),
		ReplyMarkup: Keyboard(payload),
	})
}

// EditMessage replaces a message's text and keyboard. An edit that would
// leave the message unchanged, as a repeated toggle does, is not an error.
func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, payload views.Payload) error {
	err := c.call(ctx, "editMessageText", editMessageTextRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        payload.Text(),
		ReplyMarkup: Keyboard(payload),
	})
	if IsNotModified(err) {
		c.logger.Debug("message already up to date", "chat_id", chatID, "message_id", messageID)
		return nil
	}
	return err
}

// IsNotModified reports whether err is the Bot API rejecting an edit whose
// content equals the current message.
func IsNotModified(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.Code == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(apiErr.Description), notModified)
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackQueryRequest{CallbackQueryID: callbackID})
}

// Keyboard lays controls out one per row.
func Keyboard(payload views.Payload) *InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(payload.Controls))
	for _, ctl := range payload.Controls {
		rows = append(rows, []InlineKeyboardButton{{Text: ctl.Text, CallbackData: ctl.Action}})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (c *Client) call(ctx context.Context, method string, body any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("telegram: encode %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot"+c.token+"/"+method, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("telegram: build %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// The request URL embeds the token; keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return &APIError{Method: method, Code: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
	}
	c.logger.Debug("bot api call", "method", method, "status", resp.StatusCode, "duration", time.Since(start))
	if !out.OK {
		code := out.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Method: method, Code: code, Description: out.Description}
	}
	return nil
}
