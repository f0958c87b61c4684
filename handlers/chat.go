package handlers

import (
	"io"
	"net/http"

	"portfolio/gateway"
	"portfolio/identity"
	"portfolio/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// streamBuffer is how many undelivered messages a slow SSE client may lag.
const streamBuffer = 16

func GetMessages(gw *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.MessagesResponse{Messages: gw.FetchMessages(c.Request.Context())})
	}
}

func PostMessage(gw *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		var req models.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		username := identity.Sanitize(req.Username)
		text := gateway.TruncateMessage(req.Message)
		if username == "" || text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and message required"})
			return
		}

		if !gw.SendMessage(c.Request.Context(), username, text) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send message"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "sent"})
	}
}

// StreamMessages pushes every new message as a server-sent "message" event
// until the client goes away.
func StreamMessages(gw *gateway.Gateway, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		ch := make(chan models.ChatMessage, streamBuffer)
		unsubscribe := gw.SubscribeMessages(func(m models.ChatMessage) {
			select {
			case ch <- m:
			default:
				l.Warn("Dropping message for slow stream client", zap.String("id", m.ID.String()))
			}
		})
		defer unsubscribe()

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")

		ctx := c.Request.Context()
		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case m := <-ch:
				c.SSEvent("message", m)
				return true
			}
		})
	}
}

// SuggestUsername returns a freshly generated chat name.
func SuggestUsername(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": identity.Generate()})
}
