package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"workhub/internal/authz"
	"workhub/internal/handlers"
	"workhub/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Task      *handlers.TaskHandler
	TimeEntry *handlers.TimeEntryHandler
	Dashboard *handlers.DashboardHandler
	Report    *handlers.ReportHandler
	Board     *handlers.BoardStreamHandler
	Digest    *handlers.DigestHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, jwtKey []byte) *gin.Engine {
	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/login", h.Auth.Login)
	r.POST("/password/forgot", h.Auth.ForgotPassword)
	r.POST("/password/reset", h.Auth.ResetPassword)
	r.POST("/planner/buckets", h.Dashboard.PreviewBuckets)

	// ---- protected
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(jwtKey))
	api.Use(middleware.ReadOnlyGuard())

	api.GET("/me", h.User.Me)
	api.PUT("/me/notifications", h.User.UpdateNotifications)

	// TASKS
	tasks := api.Group("/tasks")
	{
		tasks.POST("", h.Task.Create)
		tasks.GET("", h.Task.GetAll)
		tasks.GET("/:id", h.Task.GetByID)
		tasks.PUT("/:id", h.Task.Update)
		tasks.DELETE("/:id", h.Task.Delete)
		tasks.POST("/:id/status", h.Task.ChangeStatus)
	}

	// TIME ENTRIES
	entries := api.Group("/time-entries")
	{
		entries.POST("/start", h.TimeEntry.Start)
		entries.POST("/:id/stop", h.TimeEntry.Stop)
		entries.GET("", h.TimeEntry.List)
	}

	// DASHBOARD
	dash := api.Group("/dashboard")
	{
		dash.GET("/board", h.Dashboard.Board)
		dash.GET("/calendar", h.Dashboard.Calendar)
		dash.GET("/timeline", h.Dashboard.Timeline)
		dash.GET("/workspaces", h.Dashboard.WorkspaceStats)
		dash.GET("/hub", h.Dashboard.Hub)
	}

	api.GET("/ws/board", h.Board.Stream)

	// REPORTS
	api.GET("/reports/workspaces/:file", h.Report.WorkspacePDF)

	// ADMIN
	admin := api.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.POST("/digest", h.Digest.Run)
	}

	return r
}
