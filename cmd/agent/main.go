package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"calendar-assistant/config"
	"calendar-assistant/internal/agent"
	"calendar-assistant/internal/agent/orchestrator"
	"calendar-assistant/internal/agent/tools"
	"calendar-assistant/pkg/gcalendar"
	"calendar-assistant/pkg/llmprovider"
	"calendar-assistant/pkg/log"
)

const openingQuestion = "What's on my calendar tomorrow?"

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

	// 4. LLM manager
	llmManager, err := llmprovider.NewManagerFromConfig(&cfg.LLM, logger)
	if err != nil {
		logger.Errorf(ctx, "LLM providers not available: %v", err)
		fmt.Println("No LLM provider is configured. Set an API key in config.yaml or the environment.")
		return
	}

	// 5. Agent
	registry := agent.NewToolRegistry()
	registry.Register(tools.NewListEventsTool(calendarClient, cfg.GoogleCalendar.Timezone, logger))
	registry.Register(tools.NewCreateEventTool(calendarClient, cfg.GoogleCalendar.Timezone, logger))
	registry.Register(tools.NewUpdateEventTool(calendarClient, cfg.GoogleCalendar.Timezone, logger))
	registry.Register(tools.NewDeleteEventTool(calendarClient, logger))

	agentOrchestrator := orchestrator.New(llmManager, registry, logger, cfg.GoogleCalendar.Timezone)
	sessionID := uuid.NewString()

	// 6. Session
	fmt.Println("👉 Starting calendar assistant session")
	fmt.Println("🗓️  Asking:", openingQuestion)

	reply, err := agentOrchestrator.ProcessMessage(ctx, sessionID, openingQuestion)
	if err != nil {
		logger.Errorf(ctx, "cmd.agent: %v", err)
		fmt.Println("The assistant could not answer:", err)
	} else {
		fmt.Println("🤖 Assistant:", reply)
	}

	fmt.Println("\nType your message below (or type 'exit' to quit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if strings.EqualFold(message, "exit") || strings.EqualFold(message, "quit") {
			fmt.Println("👋 Exiting session.")
			break
		}

		reply, err := agentOrchestrator.ProcessMessage(ctx, sessionID, message)
		if err != nil {
			logger.Errorf(ctx, "cmd.agent: %v", err)
			fmt.Println("The assistant hit an error:", err)
			continue
		}
		fmt.Println("🤖 Assistant:", reply)
	}
}
