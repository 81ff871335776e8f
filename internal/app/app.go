package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	_ "github.com/ramzaiplumbing/site/docs" // регистрация swagger-спецификации
	"github.com/ramzaiplumbing/site/internal/config"
	"github.com/ramzaiplumbing/site/internal/handlers"
	"github.com/ramzaiplumbing/site/internal/mailer"
	"github.com/ramzaiplumbing/site/internal/relay"
	"github.com/ramzaiplumbing/site/internal/telemetry"
	"github.com/ramzaiplumbing/site/internal/templates"
	"github.com/ramzaiplumbing/site/internal/web"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// ContactPath путь эндпоинта контактной формы.
const ContactPath = "/api/contact"

// App содержит все зависимости приложения
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Telemetry *telemetry.Providers
	Relay     *relay.Relay
	Handler   *handlers.Handler
	sender    mailer.Sender
	renderer  *templates.Renderer
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewApp создает новое приложение. Sender можно подменить (тесты), иначе создается клиент Resend.
func NewApp(cfg *config.Config, log *zap.Logger, sender mailer.Sender) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	renderer, err := templates.NewRenderer(templates.DefaultBrand)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("init templates: %w", err)
	}

	if sender == nil {
		sender = mailer.NewResendClient(cfg.Mail.APIKey, cfg.Mail.BaseURL, cfg.Mail.Timeout)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		sender:   sender,
		renderer: renderer,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Init инициализирует телеметрию и ретранслятор заявок.
// Телеметрия поднимается первой, чтобы счетчики ретранслятора попали в её MeterProvider.
func (a *App) Init() error {
	if a.Config.Mail.APIKey == "" {
		a.Log.Warn("RESEND_API_KEY is not set, contact form submissions will fail")
	}
	a.Log.Info("business notifications configured", zap.String("to", a.Config.Mail.BusinessEmail))

	providers, err := telemetry.Init(a.ctx, a.Config.Telemetry)
	if err != nil {
		a.Log.Warn("telemetry disabled", zap.Error(err))
		providers = &telemetry.Providers{}
	}
	a.Telemetry = providers

	a.Relay = relay.New(relay.ConfigFrom(a.Config.Mail), a.sender, a.renderer, a.Log.Named("relay"))
	a.Handler = handlers.NewHandler(a.Relay, a.Log.Named("http"))
	return nil
}

// Router собирает chi-роутер со всеми маршрутами.
func (a *App) Router() (http.Handler, error) {
	if a.Handler == nil {
		return nil, fmt.Errorf("app is not initialized")
	}
	r := chi.NewRouter()
	config.SetupMiddlewares(r, a.Log.Named("access"))

	r.Get("/healthz", a.Handler.HealthHandler)
	r.HandleFunc(ContactPath, a.Handler.ContactHandler)

	if a.Telemetry != nil && a.Telemetry.MetricsHandler != nil {
		r.Handle(a.Config.Telemetry.MetricsPath, a.Telemetry.MetricsHandler)
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	files, err := web.FS(a.Config.Server.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("init static files: %w", err)
	}
	r.Handle("/*", web.Handler(files))

	return telemetry.Middleware("http.server")(r), nil
}

// Close освобождает все ресурсы приложения
func (a *App) Close() {
	a.Log.Info("Shutting down application...")

	if a.cancel != nil {
		a.cancel()
	}

	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(context.Background()); err != nil {
			a.Log.Warn("telemetry shutdown", zap.Error(err))
		}
	}

	_ = a.Log.Sync()
}

// Context возвращает контекст приложения
func (a *App) Context() context.Context {
	return a.ctx
}
