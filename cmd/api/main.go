package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"calendar-assistant/config"
	_ "calendar-assistant/docs" // Swagger docs
	"calendar-assistant/internal/agent"
	"calendar-assistant/internal/agent/orchestrator"
	"calendar-assistant/internal/agent/tools"
	"calendar-assistant/internal/chat"
	"calendar-assistant/internal/httpserver"
	"calendar-assistant/internal/middleware"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
	"calendar-assistant/pkg/log"
)

// @title       Calendar Assistant API
// @description AI-powered Google Calendar assistant driven by LLM function calling.
// @version     1
// @host        localhost:8080
// @schemes     http
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

	logger.Info(ctx, "Starting Calendar Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Chat agent
	var chatHandler chat.Handler

	calendarClient, err := gcalendar.NewClientFromFiles(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
	if err != nil {
		logger.Warnf(ctx, "Google Calendar not available: %v", err)
		logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
	}

	llmManager, err := llmprovider.NewManagerFromConfig(&cfg.LLM, logger)
	if err != nil {
		logger.Warnf(ctx, "LLM providers not available: %v", err)
	}

	if calendarClient != nil && llmManager != nil {
		registry := agent.NewToolRegistry()
		registry.Register(tools.NewListEventsTool(calendarClient, cfg.GoogleCalendar.Timezone, logger))
		registry.Register(tools.NewCreateEventTool(calendarClient, cfg.GoogleCalendar.Timezone, logger))
		registry.Register(tools.NewUpdateEventTool(calendarClient, cfg.GoogleCalendar.Timezone, logger))
		registry.Register(tools.NewDeleteEventTool(calendarClient, logger))

		agentOrchestrator := orchestrator.New(llmManager, registry, logger, cfg.GoogleCalendar.Timezone)
		chatHandler = chat.New(logger, agentOrchestrator)
		logger.Info(ctx, "✅ Chat agent initialized")
	} else {
		logger.Warn(ctx, "Chat agent skipped: Google Calendar or LLM providers are missing")
	}

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		ChatHandler: chatHandler,
		RateLimiter: middleware.NewRateLimiter(cfg.Chat.RateLimitPerMin),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
