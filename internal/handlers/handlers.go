package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hourglass/internal/config"
	"hourglass/internal/middleware"
	"hourglass/internal/models"
	"hourglass/internal/repository"
	"hourglass/internal/service"
)

// Services bundles the domain services the HTTP layer calls into.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Catalog       *service.CatalogService
	Timer         *service.TimerService
	Entries       *service.EntryService
	Timesheets    *service.TimesheetService
	Notifications *service.NotificationService
	Reports       *service.ReportService
	Dashboard     *service.DashboardService
}

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	store repository.Store
	cache *redis.Client
	svc   Services
}

// NewHandlerSet wires the HTTP handlers. cache may be nil when Redis is disabled.
func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, store repository.Store, cache *redis.Client, services Services) HandlerSet {
	return HandlerSet{
		log:   log,
		cfg:   cfg,
		store: store,
		cache: cache,
		svc:   services,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	api := router.Group("/api")
	api.POST("/auth/login", h.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(h.svc.Auth))
	protected.GET("/auth/me", h.Me)

	timer := protected.Group("/timer")
	timer.POST("/start", h.StartTimer)
	timer.POST("/heartbeat", h.Heartbeat)
	timer.POST("/stop", h.StopTimer)
	timer.GET("/active", h.ActiveTimer)

	entries := protected.Group("/time-entries")
	entries.GET("", h.ListEntries)
	entries.POST("/manual", h.CreateManualEntry)
	entries.DELETE("/:id", h.DeleteEntry)

	timesheets := protected.Group("/timesheets")
	timesheets.POST("/submit", h.SubmitTimesheet)
	timesheets.GET("", h.ListTimesheets)
	timesheets.PUT("/:id/review", middleware.RequireRoles(models.UserRoleAdmin), h.ReviewTimesheet)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	admin.GET("/employees", h.AdminListEmployees)
	admin.POST("/employees", h.AdminCreateEmployee)
	admin.PUT("/employees/:id", h.AdminUpdateEmployee)

	protected.GET("/projects", h.ListProjects)
	protected.POST("/projects", h.CreateProject)
	protected.PUT("/projects/:id", h.UpdateProject)
	protected.GET("/tasks", h.ListTasks)
	protected.POST("/tasks", h.CreateTask)
	protected.PUT("/tasks/:id", h.UpdateTask)

	reports := protected.Group("/reports")
	reports.GET("/time", h.TimeReport)
	reports.GET("/export/:format", h.ExportReport)

	protected.GET("/dashboard/stats", h.DashboardStats)

	notifications := protected.Group("/notifications")
	notifications.GET("", h.ListNotifications)
	notifications.GET("/unread", h.ListUnreadNotifications)
	notifications.GET("/unread-count", h.UnreadCount)
	notifications.PUT("/mark-all-read", h.MarkAllRead)
	notifications.PUT("/:id/read", h.MarkRead)
}

// caller returns the authenticated user or aborts with 401.
func caller(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		abortError(c, service.ErrUnauthorized)
	}
	return user, ok
}
