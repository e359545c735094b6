package handler

import (
	"fmt"
	"net/http"

	"voice-agent-server/internal/agent"
	"voice-agent-server/internal/apierrors"
	"voice-agent-server/internal/observability"
	"voice-agent-server/internal/openairt"
	"voice-agent-server/internal/relay"
	"voice-agent-server/internal/telephony"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

// HandleIncomingCall answers a Twilio voice webhook with TwiML that
// connects the call to the media-stream WebSocket.
func (h *Handler) HandleIncomingCall(c *gin.Context) {
	host := h.cfg.Server.StreamHost
	if host == "" {
		host = c.Request.Host
	}
	wsURL := fmt.Sprintf("wss://%s/api/phone/media-stream", host)

	h.logger.Info(c.Request.Context(), fmt.Sprintf("Voice agent TwiML WebSocket URL: %s", wsURL))

	say := &twiml.VoiceSay{
		Message: "Hello! Connecting you to our assistant. One moment please.",
	}
	stream := twiml.VoiceStream{
		Name: "voice-agent-stream",
		Url:  wsURL,
	}
	connect := twiml.VoiceConnect{
		InnerElements: []twiml.Element{stream},
	}

	twimlResult, err := twiml.Voice([]twiml.Element{say, connect})
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, twimlResult)
}

// HandleMediaStream upgrades the Twilio media-stream connection, dials
// the realtime API, and runs one relay for the life of the call.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "WebSocket upgrade failed", err)
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "leg", Value: "voice-agent"})
	h.logger.Info(ctx, "Twilio WebSocket connection established for voice agent")

	twilioLeg := telephony.NewLeg(conn, h.logger)
	defer twilioLeg.Close()

	aiClient, err := openairt.Dial(ctx, openairt.Config{
		APIKey:      h.cfg.OpenAI.APIKey,
		Temperature: h.cfg.OpenAI.Temperature,
	}, h.logger)
	if err != nil {
		h.logger.Error(ctx, "Failed to dial realtime API", err)
		return
	}
	defer aiClient.Close()

	greeting := ""
	if h.cfg.OpenAI.GreetFirst {
		greeting = agent.Greeting
	}
	err = aiClient.Initialize(openairt.SessionConfig{
		Voice:        h.cfg.OpenAI.Voice,
		Instructions: agent.Instructions,
		Tools:        agent.Tools(),
	}, greeting)
	if err != nil {
		h.logger.Error(ctx, "Failed to initialize realtime session", err)
		return
	}

	relay.New(twilioLeg, aiClient, h.dispatcher, h.logger).Run(ctx)

	h.logger.Info(ctx, "Voice agent session ended")
}
