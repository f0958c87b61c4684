package handlers

import (
	"portfolio/content"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/middleware"
	"portfolio/models"
	"portfolio/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the HTTP surface needs. Bucket may be nil.
type Deps struct {
	Gateway       *gateway.Gateway
	Projects      *content.ProjectsView
	Status        *content.StatusView
	Fallback      []models.Project
	Events        events.Publisher
	Bucket        *storage.Bucket
	AdminPassword string
	JWTSecret     string
	Log           *zap.Logger
}

// NewRouter wires every route onto a fresh engine.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := gin.New()
	r.Use(middleware.Recovery(d.Log), middleware.RequestLogger(d.Log))

	r.GET("/health", HealthCheck)
	if d.Bucket != nil {
		r.Static(d.Bucket.Route(), d.Bucket.Root())
	}

	api := r.Group("/api")
	api.GET("/projects", ListProjects(d.Projects))
	api.GET("/status", GetStatus(d.Status))
	api.GET("/username", SuggestUsername)
	api.GET("/chat/messages", GetMessages(d.Gateway))
	api.POST("/chat/messages", PostMessage(d.Gateway))
	api.GET("/chat/stream", StreamMessages(d.Gateway, d.Log))

	api.POST("/admin/login", Login(d.AdminPassword, d.JWTSecret))

	protected := api.Group("/admin")
	protected.Use(middleware.AdminRequired(d.JWTSecret))
	protected.PUT("/status", SaveStatus(d.Gateway, d.Events))
	protected.POST("/projects", CreateProject(d.Gateway, d.Events))
	protected.POST("/projects/import", ImportProjects(d.Gateway, d.Fallback, d.Events))
	protected.PATCH("/projects/:id", UpdateProject(d.Gateway, d.Events))
	protected.DELETE("/projects/:id", DeleteProject(d.Gateway, d.Events))
	protected.POST("/uploads", UploadImage(d.Gateway))

	return r
}
