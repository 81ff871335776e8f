// Package logger создает zap-логгер приложения.
package logger

import (
	"fmt"

	"github.com/ramzaiplumbing/site/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New создает логгер по настройкам. В режиме разработки пишет в консольном формате.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}

	return zcfg.Build()
}
