package main

import (
	"context"
	"flag"
	"time"

	"finance_tracker/internal/config"
	"finance_tracker/internal/db"
	"finance_tracker/internal/events"
	"finance_tracker/internal/logging"
	"finance_tracker/internal/seed"
	"finance_tracker/internal/service"

	"github.com/sirupsen/logrus"
)

// Seed fills an existing user's ledger with demo data
func main() {
	username := flag.String("user", "", "username to seed (required)")
	count := flag.Int("n", 100, "number of random transactions")
	days := flag.Int("days", 90, "spread transactions over this many past days")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.IsProd)
	if *username == "" {
		logrus.Fatal("-user is required")
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	s := seed.New(gdb,
		service.NewAccountService(gdb),
		service.NewCategoryService(gdb),
		service.NewTransactionService(gdb, events.NopPublisher{}),
		*seedValue,
	)
	ctx := context.Background()
	user, err := s.FindUser(ctx, *username)
	if err != nil {
		logrus.Fatalf("failed to find user: %v", err)
	}
	if _, err := s.Run(ctx, user.ID, *count, *days, time.Now()); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
}
