package handler

import (
	"net/http"

	"voice-agent-server/internal/config"
	"voice-agent-server/internal/observability"
	"voice-agent-server/internal/relay"

	"github.com/gorilla/websocket"
)

type Handler struct {
	cfg        *config.Config
	dispatcher relay.ToolDispatcher
	logger     *observability.Logger
}

func New(cfg *config.Config, dispatcher relay.ToolDispatcher, logger *observability.Logger) Handler {
	return Handler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// upgrader is a shared WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Twilio connects without an Origin header.
		return true
	},
}
