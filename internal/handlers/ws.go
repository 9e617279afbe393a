package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proplan-dev/proplan/internal/events"
)

type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) Stream(ctx *gin.Context) {
	if h.hub == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event stream not available"})
		return
	}

	h.hub.Serve(ctx.Writer, ctx.Request)
}
