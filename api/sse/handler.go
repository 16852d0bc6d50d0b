// Package sse streams quest lifecycle events to clients over Server-Sent
// Events, fed from the pub/sub channel the REST handlers publish on.
package sse

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/volumetricpixels/questy/cache"
	"go.uber.org/zap"
)

// Handler serves the /sse endpoint.
type Handler struct {
	pubsub  cache.PubSub
	channel string
	logger  *zap.Logger
}

// NewHandler creates an SSE handler subscribed to the given channel.
func NewHandler(ps cache.PubSub, channel string, logger *zap.Logger) *Handler {
	return &Handler{pubsub: ps, channel: channel, logger: logger}
}

// ServeSSE streams quest events until the client disconnects.
func (h *Handler) ServeSSE(c *gin.Context) {
	msgs, cancel, err := h.pubsub.Subscribe(c.Request.Context(), h.channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscribe failed"})
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			c.SSEvent("quest_event", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
