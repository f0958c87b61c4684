package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminRequired(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "welcome"})
	})
	return r
}

func request(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRequired_ValidToken(t *testing.T) {
	token, err := IssueAdminToken(testSecret, time.Now())
	require.NoError(t, err)

	w := request(protectedRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"welcome"}`, w.Body.String())
}

func TestAdminRequired_Rejects(t *testing.T) {
	expired, err := IssueAdminToken(testSecret, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	wrongKey, err := IssueAdminToken("other-secret", time.Now())
	require.NoError(t, err)
	wrongSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "player",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "expired", header: "Bearer " + expired},
		{name: "wrong key", header: "Bearer " + wrongKey},
		{name: "wrong subject", header: "Bearer " + wrongSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(protectedRouter(), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
