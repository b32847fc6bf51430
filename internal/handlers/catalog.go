package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hourglass/internal/service"
)

type projectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type taskRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ProjectID   string  `json:"project_id" binding:"required"`
}

func (h HandlerSet) ListProjects(c *gin.Context) {
	projects, err := h.svc.Catalog.ListProjects(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(projects))
}

func (h HandlerSet) CreateProject(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	project, err := h.svc.Catalog.CreateProject(c.Request.Context(), user, service.ProjectInput{Name: req.Name, Description: req.Description})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h HandlerSet) UpdateProject(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	project, err := h.svc.Catalog.UpdateProject(c.Request.Context(), user, c.Param("id"), service.ProjectInput{Name: req.Name, Description: req.Description})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h HandlerSet) ListTasks(c *gin.Context) {
	tasks, err := h.svc.Catalog.ListTasks(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

func (h HandlerSet) CreateTask(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.Catalog.CreateTask(c.Request.Context(), user, service.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h HandlerSet) UpdateTask(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.svc.Catalog.UpdateTask(c.Request.Context(), user, c.Param("id"), service.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
