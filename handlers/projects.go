package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"portfolio/admin"
	"portfolio/content"
	"portfolio/events"
	"portfolio/gateway"
	"portfolio/models"

	"github.com/gin-gonic/gin"
)

// ListProjects renders the selected project list with optional tag, text
// and featured filters. Tags are collected before filtering.
func ListProjects(view *content.ProjectsView) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects := view.Projects()
		tags := content.Tags(projects)

		if featured, _ := strconv.ParseBool(c.Query("featured")); featured {
			projects = content.Featured(projects)
		}
		projects = content.Filter(projects, c.Query("tag"), c.Query("q"))

		c.JSON(http.StatusOK, models.ProjectsResponse{
			Projects: projects,
			Total:    len(projects),
			Source:   string(view.Source()),
			Tags:     tags,
			Hint:     view.Hint(),
		})
	}
}

func CreateProject(gw *gateway.Gateway, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		project := gw.CreateProject(ctx, req.Project())
		if project == nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create project"})
			return
		}

		pub.Emit(ctx, events.ProjectsUpdated)
		c.JSON(http.StatusCreated, project)
	}
}

// UpdateProject writes only the fields present in the body.
func UpdateProject(gw *gateway.Gateway, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		var patch models.ProjectPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if patch.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		if patch.Status != nil && !patch.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		if !trimRequired(patch.Title) || !trimRequired(patch.Description) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and description cannot be blank"})
			return
		}

		ctx := c.Request.Context()
		if !gw.UpdateProject(ctx, c.Param("id"), patch) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update project"})
			return
		}

		pub.Emit(ctx, events.ProjectsUpdated)
		c.JSON(http.StatusOK, gin.H{"message": "project updated"})
	}
}

func DeleteProject(gw *gateway.Gateway, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		ctx := c.Request.Context()
		if !gw.DeleteProject(ctx, c.Param("id")) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete project"})
			return
		}

		pub.Emit(ctx, events.ProjectsUpdated)
		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

// ImportProjects copies the fallback snapshot into the projects table,
// optionally applying an edit to one of its rows.
func ImportProjects(gw *gateway.Gateway, fallback []models.Project, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		var req models.ImportProjectsRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		var form *admin.Form
		var image *string
		if req.EditedID != "" && req.Edit != nil {
			f := admin.FormFromProject(req.Edit.Project())
			form, image = &f, req.Edit.Image
		}

		ctx := c.Request.Context()
		imported := admin.ImportFallback(ctx, gw, fallback, req.EditedID, form, image)
		if imported > 0 {
			pub.Emit(ctx, events.ProjectsUpdated)
		}

		status := http.StatusOK
		if imported < len(fallback) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"imported": imported, "total": len(fallback)})
	}
}

// UploadImage stores the multipart "image" file and returns its URL.
func UploadImage(gw *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireConfigured(c, gw) {
			return
		}

		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return
		}
		defer f.Close()

		url := gw.UploadProjectImage(c.Request.Context(), fh.Filename, f)
		if url == "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload image"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}

func requireConfigured(c *gin.Context, gw *gateway.Gateway) bool {
	if gw.Configured() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote data service not configured"})
	return false
}

// trimRequired trims a patched field in place and reports whether it is
// absent or still non-blank.
func trimRequired(field *string) bool {
	if field == nil {
		return true
	}
	*field = strings.TrimSpace(*field)
	return *field != ""
}
