package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plugingenius/plugingenius-cli/pkg/form"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
	"github.com/plugingenius/plugingenius-cli/pkg/store"
	"github.com/plugingenius/plugingenius-cli/pkg/templates"
)

type categoryInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCategories(c *gin.Context) {
	categories := make([]categoryInfo, len(models.Categories))
	for i, cat := range models.Categories {
		categories[i] = categoryInfo{Value: string(cat), Label: cat.Label()}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// handleCreate mirrors the create page: the request comes from the query
// string, so links can prefill a template.
func (s *Server) handleCreate(c *gin.Context) {
	req, _ := templates.Apply(form.FromQuery(c.Request.URL.Query()))
	a, ok := s.generate(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": templates.List(c.Query("type"))})
}

// handleTemplatePreview generates the plugin a template would produce
func (s *Server) handleTemplatePreview(c *gin.Context) {
	t, err := templates.Find(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	a, ok := s.generate(c, t.Request())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t, "plugin": a})
}

func (s *Server) handleGenerate(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	a, ok := s.generate(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleArchive(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	a, ok := s.generate(c, req)
	if !ok {
		return
	}

	data, err := packager.BuildArchive(a, s.level, nil)
	if err != nil {
		s.logger.Error("archive build failed", "slug", a.Slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+packager.ArchiveFileName(a.Slug)+`"`)
	c.Data(http.StatusOK, "application/zip", data)
}

func (s *Server) handleText(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	a, ok := s.generate(c, req)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+packager.TextFileName(a.Slug)+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(packager.BuildText(a)))
}

func (s *Server) handleListProjects(c *gin.Context) {
	list, err := s.projects.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list projects failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved plugins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": list})
}

func (s *Server) handleSaveProject(c *gin.Context) {
	var a models.PluginArtifact
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	saved, err := s.projects.Save(c.Request.Context(), &a)
	if err != nil {
		if errors.Is(err, presenter.ErrInvalidArtifact) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("save project failed", "slug", a.Slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save plugin"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleGetProject(c *gin.Context) {
	saved, err := s.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.projectError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.projectError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) projectError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Saved plugin not found"})
		return
	}
	s.logger.Error("project lookup failed", "id", c.Param("id"), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved plugins"})
}

func bindRequest(c *gin.Context) (models.PluginRequest, bool) {
	var req models.PluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return req, false
	}
	return req, true
}

// generate validates and renders req, writing the error response itself
// when it returns false.
func (s *Server) generate(c *gin.Context, req models.PluginRequest) (*models.PluginArtifact, bool) {
	if err := form.Validate(req); err != nil {
		var verrs form.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "messages": verrs.Messages(), "fields": verrs})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return nil, false
	}

	a, err := s.generator.Generate(c.Request.Context(), req)
	if err != nil {
		if c.Request.Context().Err() != nil {
			s.logger.Debug("client went away during generation", "title", req.Title)
			c.AbortWithStatus(http.StatusRequestTimeout)
			return nil, false
		}
		s.logger.Error("generation failed", "title", req.Title, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate plugin"})
		return nil, false
	}
	return a, true
}
