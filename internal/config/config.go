// Package config содержит конфигурацию и загрузчик настроек.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config содержит конфигурацию приложения
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mail      MailConfig      `yaml:"mail"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST"`
	Port         int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	StaticDir    string        `yaml:"static_dir" envconfig:"STATIC_DIR"`
}

// MailConfig содержит настройки отправки писем через Resend.
// Пустой APIKey считается ошибкой конфигурации на этапе отправки.
type MailConfig struct {
	APIKey        string        `yaml:"api_key" envconfig:"RESEND_API_KEY"`
	BaseURL       string        `yaml:"base_url" envconfig:"RESEND_BASE_URL"`
	Timeout       time.Duration `yaml:"timeout" envconfig:"RESEND_TIMEOUT"`
	BusinessEmail string        `yaml:"business_email" envconfig:"BUSINESS_EMAIL"`
	BusinessFrom  string        `yaml:"business_from" envconfig:"BUSINESS_FROM"`
	CustomerFrom  string        `yaml:"customer_from" envconfig:"CUSTOMER_FROM"`
}

// LoggingConfig содержит настройки логгера.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Development bool   `yaml:"development" envconfig:"LOG_DEVELOPMENT"`
}

// TelemetryConfig содержит настройки трассировки и метрик.
type TelemetryConfig struct {
	ServiceName      string  `yaml:"service_name"`
	Environment      string  `yaml:"environment" envconfig:"APP_ENV"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint" envconfig:"OTLP_ENDPOINT"`
	OTLPInsecure     bool    `yaml:"otlp_insecure"`
	TracesEnabled    bool    `yaml:"traces_enabled" envconfig:"TRACES_ENABLED"`
	MetricsEnabled   bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio"`
	MetricsPath      string  `yaml:"metrics_path"`
}

const (
	DefaultBusinessEmail = "info@ramzaiplumbing.com.au"
	DefaultBusinessFrom  = "Ramzai Plumbing Website <onboarding@resend.dev>"
	DefaultCustomerFrom  = "Ramzai Plumbing <onboarding@resend.dev>"
	DefaultResendBaseURL = "https://api.resend.com"
)

// LoadConfig загружает конфигурацию из файла и переменных окружения.
// Файл необязателен, переменные окружения (и .env) перекрывают значения из файла.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return Load(path)
}

// Load загружает конфигурацию из указанного пути.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	normalizeConfig(&cfg)
	return &cfg, nil
}

// FromEnv собирает конфигурацию только из окружения (для serverless-функции).
func FromEnv() (*Config, error) {
	cfg := defaultConfig()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	normalizeConfig(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := envconfig.Process("", &cfg.Server); err != nil {
		return fmt.Errorf("failed to read server env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Mail); err != nil {
		return fmt.Errorf("failed to read mail env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Logging); err != nil {
		return fmt.Errorf("failed to read logging env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Telemetry); err != nil {
		return fmt.Errorf("failed to read telemetry env: %w", err)
	}
	return nil
}

// Address возвращает адрес сервера в формате host:port
func (s *ServerConfig) Address() string {
	if s.Host == "" {
		return fmt.Sprintf(":%d", s.Port)
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:         "",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Mail: MailConfig{
			BaseURL:       DefaultResendBaseURL,
			Timeout:       15 * time.Second,
			BusinessEmail: DefaultBusinessEmail,
			BusinessFrom:  DefaultBusinessFrom,
			CustomerFrom:  DefaultCustomerFrom,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName:      "ramzai-site",
			Environment:      "local",
			OTLPEndpoint:     "localhost:4318",
			OTLPInsecure:     true,
			TracesEnabled:    false,
			MetricsEnabled:   true,
			TraceSampleRatio: 1.0,
			MetricsPath:      "/metrics",
		},
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Mail.BaseURL == "" {
		cfg.Mail.BaseURL = DefaultResendBaseURL
	}
	if cfg.Mail.Timeout <= 0 {
		cfg.Mail.Timeout = 15 * time.Second
	}
	if cfg.Mail.BusinessEmail == "" {
		cfg.Mail.BusinessEmail = DefaultBusinessEmail
	}
	if cfg.Mail.BusinessFrom == "" {
		cfg.Mail.BusinessFrom = DefaultBusinessFrom
	}
	if cfg.Mail.CustomerFrom == "" {
		cfg.Mail.CustomerFrom = DefaultCustomerFrom
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "ramzai-site"
	}
	if cfg.Telemetry.OTLPEndpoint == "" {
		cfg.Telemetry.OTLPEndpoint = "localhost:4318"
	}
	if cfg.Telemetry.TraceSampleRatio <= 0 || cfg.Telemetry.TraceSampleRatio > 1 {
		cfg.Telemetry.TraceSampleRatio = 1.0
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
}
