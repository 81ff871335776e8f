// Package client отправляет заявку в ретранслятор так же, как это делает форма на сайте:
// сначала подсказочная проверка полей, затем один POST на /api/contact.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ramzaiplumbing/site/internal/models"
	"github.com/ramzaiplumbing/site/internal/validation"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	contactPath    = "/api/contact"
	defaultTimeout = 30 * time.Second
)

// Тексты уведомлений формы.
const (
	MsgRequiredFields = "Please fill in all required fields."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgInvalidPhone   = "Please enter a valid Australian phone number."
	MsgGenericError   = "Something went wrong. Please try again."
	MsgNetworkError   = "Connection error. Please call us directly at 0400 000 000."
)

// Kind тип уведомления.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification то, что форма показывает пользователю.
type Notification struct {
	Kind    Kind
	Message string
}

// ErrInvalidForm заявка не прошла проверку на клиенте, запрос не отправлялся.
var ErrInvalidForm = errors.New("client: form validation failed")

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	validate   *validator.Validate
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		validate: validation.New(),
	}
}

// Submit проверяет заявку и отправляет её. Ошибка возвращается вместе с уведомлением,
// уведомление всегда заполнено.
func (c *Client) Submit(ctx context.Context, s models.Submission) (Notification, error) {
	if err := validation.CheckForm(c.validate, s); err != nil {
		return Notification{Kind: KindError, Message: formMessage(err)}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return Notification{Kind: KindError, Message: MsgNetworkError}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+contactPath, bytes.NewReader(raw))
	if err != nil {
		return Notification{Kind: KindError, Message: MsgNetworkError}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Notification{Kind: KindError, Message: MsgNetworkError}, fmt.Errorf("client: send: %w", err)
	}
	defer resp.Body.Close()

	var result models.Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Notification{Kind: KindError, Message: MsgNetworkError}, fmt.Errorf("client: decode response status=%d: %w", resp.StatusCode, err)
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = MsgGenericError
		}
		return Notification{Kind: KindError, Message: msg}, nil
	}
	return Notification{Kind: KindSuccess, Message: result.Message}, nil
}

func formMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrMissingFields):
		return MsgRequiredFields
	case errors.Is(err, validation.ErrInvalidEmail):
		return MsgInvalidEmail
	case errors.Is(err, validation.ErrInvalidPhone):
		return MsgInvalidPhone
	default:
		return MsgGenericError
	}
}
