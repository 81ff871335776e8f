package mocks

import (
	"context"
	"errors"

	"github.com/ramzaiplumbing/site/internal/mailer"
)

type SenderMock struct {
	SendFunc  func(ctx context.Context, email mailer.Email) (*mailer.SendResult, error)
	SendCalls int
	Sent      []mailer.Email
}

func (m *SenderMock) Send(ctx context.Context, email mailer.Email) (*mailer.SendResult, error) {
	m.SendCalls++
	m.Sent = append(m.Sent, email)
	if m.SendFunc == nil {
		return nil, errors.New("SendFunc not set")
	}
	return m.SendFunc(ctx, email)
}
