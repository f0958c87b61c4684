package handlers

import (
	"net/http"

	"portfolio/admin"
	"portfolio/content"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

func GetStatus(view *content.StatusView) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.StatusResponse{Items: view.Items()})
	}
}

// SaveStatus replaces the whole list, minus blank entries.
func SaveStatus(gw *gateway.Gateway, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		var req models.SaveStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		items := admin.CleanStatus(req.Items)
		ctx := c.Request.Context()
		if !gw.SaveStatus(ctx, items) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save"})
			return
		}

		pub.Emit(ctx, events.StatusUpdated)
		c.JSON(http.StatusOK, models.StatusResponse{Items: items})
	}
}
