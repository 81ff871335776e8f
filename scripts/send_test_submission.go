package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ramzaiplumbing/site/internal/client"
	"github.com/ramzaiplumbing/site/internal/config"
	"github.com/ramzaiplumbing/site/internal/logger"
	"github.com/ramzaiplumbing/site/internal/models"
	"go.uber.org/zap"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the running site")
	count := flag.Int("count", 1, "Number of test submissions to send")
	name := flag.String("name", "Test Customer", "Submitter name")
	email := flag.String("email", "test@example.com", "Submitter email")
	phone := flag.String("phone", "0412 345 678", "Submitter phone")
	suburb := flag.String("suburb", "Parramatta", "Suburb")
	service := flag.String("service", "blocked-drains", "Service code")
	message := flag.String("message", "Kitchen sink is draining slowly.\nPlease call after 3pm.", "Message")
	flag.Parse()

	log, err := logger.New(config.LoggingConfig{Level: "info", Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	c := client.New(*baseURL)
	failed := 0
	for i := 0; i < *count; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := c.Submit(ctx, models.Submission{
			Name:    *name,
			Email:   *email,
			Phone:   *phone,
			Suburb:  *suburb,
			Service: *service,
			Message: *message,
		})
		cancel()

		fields := []zap.Field{zap.Int("n", i+1), zap.String("kind", string(n.Kind)), zap.String("message", n.Message)}
		if err != nil || n.Kind != client.KindSuccess {
			failed++
			log.Error("submission failed", append(fields, zap.Error(err))...)
			continue
		}
		log.Info("submission sent", fields...)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
