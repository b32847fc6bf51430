package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hourglass/internal/models"
	"hourglass/internal/service"
)

type createEmployeeRequest struct {
	Email          string            `json:"email" binding:"required,email"`
	Name           string            `json:"name" binding:"required"`
	Password       string            `json:"password" binding:"required"`
	Role           models.UserRole   `json:"role" binding:"omitempty,oneof=admin employee"`
	Status         models.UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	DefaultProject *string           `json:"default_project"`
	DefaultTask    *string           `json:"default_task"`
}

type updateEmployeeRequest struct {
	Name           *string            `json:"name"`
	Email          *string            `json:"email" binding:"omitempty,email"`
	Password       *string            `json:"password"`
	Role           *models.UserRole   `json:"role" binding:"omitempty,oneof=admin employee"`
	Status         *models.UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
	DefaultProject *string            `json:"default_project"`
	DefaultTask    *string            `json:"default_task"`
}

func (h HandlerSet) AdminListEmployees(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	users, err := h.svc.Users.ListEmployees(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

func (h HandlerSet) AdminCreateEmployee(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.svc.Users.CreateEmployee(c.Request.Context(), user, service.CreateUserInput{
		Email:          req.Email,
		Name:           req.Name,
		Password:       req.Password,
		Role:           req.Role,
		Status:         req.Status,
		DefaultProject: req.DefaultProject,
		DefaultTask:    req.DefaultTask,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h HandlerSet) AdminUpdateEmployee(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.svc.Users.UpdateEmployee(c.Request.Context(), user, c.Param("id"), service.UpdateUserInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		Status:         req.Status,
		DefaultProject: req.DefaultProject,
		DefaultTask:    req.DefaultTask,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
