package handlers

import (
	"net/http"
	"time"

	"portfolio/admin"
	"portfolio/middleware"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

// Login exchanges the admin password for a bearer token.
func Login(password, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !admin.CheckPassword(password, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": admin.ErrWrongPassword.Error()})
			return
		}

		token, err := middleware.IssueAdminToken(secret, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
