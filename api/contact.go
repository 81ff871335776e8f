// Package handler содержит serverless-функцию Vercel для контактной формы.
package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ramzaiplumbing/site/internal/config"
	"github.com/ramzaiplumbing/site/internal/handlers"
	"github.com/ramzaiplumbing/site/internal/logger"
	"github.com/ramzaiplumbing/site/internal/mailer"
	"github.com/ramzaiplumbing/site/internal/models"
	"github.com/ramzaiplumbing/site/internal/relay"
	"github.com/ramzaiplumbing/site/internal/templates"
	"go.uber.org/zap"
)

var (
	initOnce sync.Once
	initErr  error
	contact  *handlers.Handler
)

// Handler точка входа функции /api/contact. Зависимости создаются один раз на экземпляр.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		contact, initErr = newContactHandler()
	})
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.Response{Success: false, Message: relay.MsgConfigError})
		return
	}
	contact.ContactHandler(w, r)
}

func newContactHandler() (*handlers.Handler, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		log = zap.NewNop()
	}
	renderer, err := templates.NewRenderer(templates.DefaultBrand)
	if err != nil {
		log.Error("failed to parse email templates", zap.Error(err))
		return nil, err
	}
	sender := mailer.NewResendClient(cfg.Mail.APIKey, cfg.Mail.BaseURL, cfg.Mail.Timeout)
	r := relay.New(relay.ConfigFrom(cfg.Mail), sender, renderer, log.Named("relay"))
	return handlers.NewHandler(r, log.Named("http")), nil
}
