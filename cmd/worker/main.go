package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"finance_tracker/internal/config"
	"finance_tracker/internal/db"
	"finance_tracker/internal/events"
	"finance_tracker/internal/logging"
	"finance_tracker/internal/service"
	"finance_tracker/internal/worker"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Worker consumes ledger events and sweeps goal deadlines
func main() {
	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.IsProd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	notifier := worker.NewNotifier(
		service.NewNotificationService(gdb),
		service.NewGoalService(gdb, events.NopPublisher{}),
		service.NewAccountService(gdb),
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.AMQPURL != "" {
		client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logrus.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer client.Close()
		g.Go(func() error {
			return client.Consume(gctx, notifier.Handle)
		})
	} else {
		logrus.Warn("AMQP_URL not set, only goal deadline reminders will run")
	}
	g.Go(func() error {
		return notifier.RunSweeps(gctx, worker.SweepInterval)
	})

	logrus.Info("Worker started")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logrus.Fatalf("worker stopped: %v", err)
	}
	logrus.Info("Worker stopped")
}
