package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"calendar-assistant/config"
	"calendar-assistant/internal/manual"
	"calendar-assistant/pkg/datemath"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/log"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Google Calendar client
	calendarClient, err := gcalendar.NewClientFromFiles(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
	if err != nil {
		logger.Errorf(ctx, "Google Calendar not available: %v", err)
		fmt.Println("Google Calendar is not set up. Run `go run scripts/gcal-auth/main.go` first.")
		return
	}

	// 4. Date parser
	parser, err := datemath.NewParser(cfg.GoogleCalendar.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.GoogleCalendar.Timezone, err)
		parser, _ = datemath.NewParser("UTC")
	}

	// 5. CLI loop
	cli := manual.New(calendarClient, parser, logger, os.Stdin, os.Stdout)
	if err := cli.Run(ctx); err != nil {
		logger.Errorf(ctx, "cmd.manual: %v", err)
	}
}
