// Package relay проверяет заявку с контактной формы и пересылает её двумя письмами.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ramzaiplumbing/site/internal/config"
	"github.com/ramzaiplumbing/site/internal/mailer"
	"github.com/ramzaiplumbing/site/internal/models"
	"github.com/ramzaiplumbing/site/internal/telemetry"
	"github.com/ramzaiplumbing/site/internal/templates"
	"github.com/ramzaiplumbing/site/internal/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Сообщения, которые видит пользователь.
const (
	MsgSuccess          = "Thank you! Your message has been sent. We'll get back to you shortly."
	MsgMissingFields    = "Please fill in all required fields (name, email, phone)"
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgConfigError      = "Server configuration error. Please try again later."
	MsgSendFailed       = "Sorry, there was an error sending your message. Please call us directly."
	MsgMethodNotAllowed = "Method not allowed"
	MsgTooLarge         = "Your message is too long. Please shorten it or call us directly."
)

const customerSubject = "Thanks for contacting Ramzai Plumbing!"

// ErrNotConfigured ключ провайдера не задан.
var ErrNotConfigured = errors.New("relay: email provider API key is not configured")

// Outcome итог обработки заявки, используется в логах и метриках.
type Outcome string

const (
	OutcomeSent          Outcome = "sent"
	OutcomePartial       Outcome = "partial"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeMisconfigured Outcome = "misconfigured"
	OutcomeSendFailed    Outcome = "send_failed"
)

// Config настройки ретранслятора. Передаются явно при создании.
type Config struct {
	APIKey        string
	BusinessEmail string
	BusinessFrom  string
	CustomerFrom  string
}

// ConfigFrom строит Config из настроек почты приложения.
func ConfigFrom(mc config.MailConfig) Config {
	return Config{
		APIKey:        mc.APIKey,
		BusinessEmail: mc.BusinessEmail,
		BusinessFrom:  mc.BusinessFrom,
		CustomerFrom:  mc.CustomerFrom,
	}
}

// Result результат обработки одной заявки.
type Result struct {
	Status           int
	Response         models.Response
	Outcome          Outcome
	SubmissionID     string
	ConfirmationSent bool
	Err              error
}

// Relay не хранит состояния между вызовами, Submit можно вызывать конкурентно.
type Relay struct {
	cfg         Config
	sender      mailer.Sender
	renderer    *templates.Renderer
	validate    *validator.Validate
	log         *zap.Logger
	instruments *telemetry.Instruments
}

// New создает Relay.
func New(cfg Config, sender mailer.Sender, renderer *templates.Renderer, log *zap.Logger) *Relay {
	if cfg.BusinessEmail == "" {
		cfg.BusinessEmail = config.DefaultBusinessEmail
	}
	if cfg.BusinessFrom == "" {
		cfg.BusinessFrom = config.DefaultBusinessFrom
	}
	if cfg.CustomerFrom == "" {
		cfg.CustomerFrom = config.DefaultCustomerFrom
	}
	if log == nil {
		log = zap.NewNop()
	}

	instruments, err := telemetry.NewInstruments(otel.GetMeterProvider())
	if err != nil {
		log.Warn("failed to create relay instruments", zap.Error(err))
	}

	return &Relay{
		cfg:         cfg,
		sender:      sender,
		renderer:    renderer,
		validate:    validation.New(),
		log:         log,
		instruments: instruments,
	}
}

// Submit проверяет заявку, отправляет уведомление бизнесу и подтверждение клиенту.
// Подтверждение клиенту отправляется только после успешного уведомления бизнеса.
func (r *Relay) Submit(ctx context.Context, s models.Submission) Result {
	id := uuid.NewString()
	ctx, span := telemetry.Tracer().Start(ctx, "relay.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	log := r.log.With(zap.String("submission_id", id))

	res := r.submit(ctx, log, s)
	res.SubmissionID = id

	span.SetAttributes(attribute.String("submission.outcome", string(res.Outcome)))
	if res.Err != nil {
		span.RecordError(res.Err)
		if res.Status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, string(res.Outcome))
		}
	}
	r.instruments.RecordSubmission(ctx, string(res.Outcome))
	return res
}

func (r *Relay) submit(ctx context.Context, log *zap.Logger, s models.Submission) Result {
	if err := validation.CheckSubmission(r.validate, s); err != nil {
		switch {
		case errors.Is(err, validation.ErrMissingFields):
			return failure(http.StatusBadRequest, MsgMissingFields, OutcomeInvalid, err)
		case errors.Is(err, validation.ErrInvalidEmail):
			return failure(http.StatusBadRequest, MsgInvalidEmail, OutcomeInvalid, err)
		default:
			log.Error("unexpected validation error", zap.Error(err))
			return failure(http.StatusBadRequest, MsgMissingFields, OutcomeInvalid, err)
		}
	}

	if r.cfg.APIKey == "" || r.sender == nil || r.renderer == nil {
		log.Error("RESEND_API_KEY environment variable is not set")
		return failure(http.StatusInternalServerError, MsgConfigError, OutcomeMisconfigured, ErrNotConfigured)
	}

	service := ServiceLabel(s.Service)
	view := templates.View{
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Suburb:  s.Suburb,
		Service: service,
		Message: s.Message,
	}

	businessHTML, err := r.renderer.BusinessNotification(view)
	if err != nil {
		log.Error("failed to render business notification", zap.Error(err))
		return failure(http.StatusInternalServerError, MsgSendFailed, OutcomeSendFailed, err)
	}
	customerHTML, err := r.renderer.CustomerConfirmation(view)
	if err != nil {
		log.Error("failed to render customer confirmation", zap.Error(err))
		return failure(http.StatusInternalServerError, MsgSendFailed, OutcomeSendFailed, err)
	}

	sent, err := r.send(ctx, telemetry.EmailBusiness, mailer.Email{
		From:    r.cfg.BusinessFrom,
		To:      []string{r.cfg.BusinessEmail},
		ReplyTo: s.Email,
		Subject: fmt.Sprintf("New Quote Request: %s - %s", service, s.Name),
		HTML:    businessHTML,
	})
	if err != nil {
		log.Error("failed to send business notification", zap.Error(err))
		return failure(http.StatusInternalServerError, MsgSendFailed, OutcomeSendFailed,
			fmt.Errorf("business notification: %w", err))
	}
	log.Info("business notification sent", zap.String("email_id", emailID(sent)), zap.String("service", service))

	res := Result{
		Status:   http.StatusOK,
		Response: models.Response{Success: true, Message: MsgSuccess},
		Outcome:  OutcomeSent,
	}

	confirmation, err := r.send(ctx, telemetry.EmailCustomer, mailer.Email{
		From:    r.cfg.CustomerFrom,
		To:      []string{s.Email},
		Subject: customerSubject,
		HTML:    customerHTML,
	})
	if err != nil {
		// Уведомление бизнесу уже ушло, подтверждение клиенту best-effort.
		log.Warn("failed to send customer confirmation", zap.Error(err))
		res.Outcome = OutcomePartial
		res.Err = fmt.Errorf("customer confirmation: %w", err)
		return res
	}
	log.Info("customer confirmation sent", zap.String("email_id", emailID(confirmation)))
	res.ConfirmationSent = true
	return res
}

func (r *Relay) send(ctx context.Context, kind string, email mailer.Email) (*mailer.SendResult, error) {
	start := time.Now()
	res, err := r.sender.Send(ctx, email)
	r.instruments.RecordEmailSend(ctx, kind, time.Since(start), err)
	return res, err
}

func failure(status int, message string, outcome Outcome, err error) Result {
	return Result{
		Status:   status,
		Response: models.Response{Success: false, Message: message},
		Outcome:  outcome,
		Err:      err,
	}
}

func emailID(res *mailer.SendResult) string {
	if res == nil {
		return ""
	}
	return res.ID
}
