package main

// @title Ramzai Plumbing Contact API
// @version 1.0
// @description Ретранслятор контактной формы сайта в письма через Resend.
// @contact.name Ramzai Plumbing
// @contact.email info@ramzaiplumbing.com.au
// @BasePath /

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramzaiplumbing/site/internal/app"
	"github.com/ramzaiplumbing/site/internal/config"
	"github.com/ramzaiplumbing/site/internal/logger"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Флаги
	addr, configPath, err := config.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}
	if configPath != "" {
		os.Setenv("CONFIG_PATH", configPath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	addr.Apply(&cfg.Server)

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}

	a, err := app.NewApp(cfg, zl, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Init(); err != nil {
		return err
	}

	handler, err := a.Router()
	if err != nil {
		return err
	}

	// Конфигурация и запуск сервера
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(a.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("http server started", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	zl.Info("http server stopped")
	return nil
}
