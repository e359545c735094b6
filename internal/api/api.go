package api

import (
	"net/http"

	voiceCallHandler "voice-agent-server/internal/voicecall/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router           *gin.RouterGroup
	voiceCallHandler voiceCallHandler.Handler
}

func New(router *gin.RouterGroup, voiceCallHandler voiceCallHandler.Handler) API {
	return API{
		router:           router,
		voiceCallHandler: voiceCallHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		phoneGroup := apiGroup.Group("/phone")
		// Twilio voice webhooks may be configured as GET or POST.
		phoneGroup.GET("/incoming-call", a.voiceCallHandler.HandleIncomingCall)
		phoneGroup.POST("/incoming-call", a.voiceCallHandler.HandleIncomingCall)
		phoneGroup.GET("/media-stream", a.voiceCallHandler.HandleMediaStream)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
