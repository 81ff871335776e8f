package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"HTTP_HOST", "PORT", "STATIC_DIR",
	"RESEND_API_KEY", "RESEND_BASE_URL", "RESEND_TIMEOUT",
	"BUSINESS_EMAIL", "BUSINESS_FROM", "CUSTOMER_FROM",
	"LOG_LEVEL", "LOG_DEVELOPMENT",
	"APP_ENV", "OTLP_ENDPOINT", "TRACES_ENABLED", "METRICS_ENABLED",
}

// clearEnv убирает переменные окружения на время теста.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DefaultResendBaseURL, cfg.Mail.BaseURL)
	assert.Equal(t, DefaultBusinessEmail, cfg.Mail.BusinessEmail)
	assert.Equal(t, DefaultBusinessFrom, cfg.Mail.BusinessFrom)
	assert.Equal(t, DefaultCustomerFrom, cfg.Mail.CustomerFrom)
	assert.Equal(t, 15*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Telemetry.MetricsEnabled)
	assert.False(t, cfg.Telemetry.TracesEnabled)
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
mail:
  business_email: owner@example.com.au
  timeout: 3s
logging:
  level: debug
telemetry:
  metrics_enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.MetricsEnabled)
	assert.Equal(t, "owner@example.com.au", cfg.Mail.BusinessEmail)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
mail:
  api_key: from-file
  business_email: file@example.com
`)
	t.Setenv("PORT", "7070")
	t.Setenv("RESEND_API_KEY", "re_env")
	t.Setenv("BUSINESS_EMAIL", "env@example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "re_env", cfg.Mail.APIKey)
	assert.Equal(t, "env@example.com", cfg.Mail.BusinessEmail)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "server: ["))
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESEND_API_KEY", "re_env")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "re_env", cfg.Mail.APIKey)
	assert.Equal(t, DefaultBusinessEmail, cfg.Mail.BusinessEmail)
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Port: 8080}
	assert.Equal(t, ":8080", s.Address())

	s.Host = "127.0.0.1"
	assert.Equal(t, "127.0.0.1:8080", s.Address())
}

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addr, path, err := ParseFlags(fs, []string{"-a", "0.0.0.0:3000", "-config", "site.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "site.yaml", path)

	s := ServerConfig{Port: 8080}
	addr.Apply(&s)
	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, 3000, s.Port)
}

func TestParseFlags_NoAddress(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addr, _, err := ParseFlags(fs, nil)
	require.NoError(t, err)

	s := ServerConfig{Host: "example", Port: 1}
	addr.Apply(&s)
	assert.Equal(t, "example", s.Host)
	assert.Equal(t, 1, s.Port)
}
