// Package mailer отправляет письма через HTTP API Resend.
package mailer

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api.resend.com"
	defaultTimeout = 15 * time.Second
	emailsPath     = "/emails"
)

// ErrMissingAPIKey возвращается, если ключ API не задан. Запрос в сеть не выполняется.
var ErrMissingAPIKey = errors.New("mailer: API key not configured")

// Email письмо для отправки.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendResult ответ провайдера на успешную отправку.
type SendResult struct {
	ID string `json:"id"`
}

// Sender описывает отправку одного письма.
type Sender interface {
	Send(ctx context.Context, email Email) (*SendResult, error)
}

// APIError ошибка, которую вернул провайдер.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name == "" && e.Message == "" {
		return fmt.Sprintf("mailer: request failed status=%d", e.StatusCode)
	}
	return fmt.Sprintf("mailer: request failed status=%d name=%s message=%s", e.StatusCode, e.Name, e.Message)
}

// ResendClient клиент API Resend.
type ResendClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewResendClient возвращает клиент с ключом и необязательными базовым URL и таймаутом.
func NewResendClient(apiKey, baseURL string, timeout time.Duration) *ResendClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ResendClient{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Send отправляет письмо. Ответ не из диапазона 2xx возвращается как *APIError.
func (c *ResendClient) Send(ctx context.Context, email Email) (*SendResult, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	raw, err := json.Marshal(email)
	if err != nil {
		return nil, fmt.Errorf("mailer: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+emailsPath, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if len(body) > 0 {
			_ = json.Unmarshal(body, apiErr)
		}
		apiErr.StatusCode = resp.StatusCode
		if apiErr.Message == "" && len(body) > 0 && !json.Valid(body) {
			apiErr.Message = string(body)
		}
		return nil, apiErr
	}

	var result SendResult
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("mailer: decode response: %w", err)
		}
	}
	return &result, nil
}
