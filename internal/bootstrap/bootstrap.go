package bootstrap

import (
	"context"
	"fmt"

	"voice-agent-server/internal/agent"
	"voice-agent-server/internal/config"
	"voice-agent-server/internal/observability"
	"voice-agent-server/internal/store"
	voiceCallHandler "voice-agent-server/internal/voicecall/handler"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	VoiceCallHandler voiceCallHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize the tool dispatcher and voice-call handler
	dispatcher := agent.NewDispatcher(&deps.Store, logger)
	deps.VoiceCallHandler = voiceCallHandler.New(cfg, dispatcher, logger)

	logger.Info(ctx, "Dependencies initialized")
	return deps, nil
}
