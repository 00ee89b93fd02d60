package routes

import (
	"github.com/gin-gonic/gin"

	"taskmanager/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	historyHandler *handlers.HistoryHandler,
	mailSettingsHandler *handlers.MailSettingsHandler,
	reportsHandler *handlers.ReportsHandler,
	authMiddleware gin.HandlerFunc,
) *gin.Engine {

	// ---- public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ---- protected
	api := r.Group("/api/v1", authMiddleware)

	// TASKS
	task := api.Group("/task")
	{
		task.GET("/", taskHandler.GetAll)
		task.POST("/", taskHandler.Create)
		task.GET("/:id/", taskHandler.GetByID)
		task.PATCH("/:id/", taskHandler.Update)
		task.DELETE("/:id/", taskHandler.Delete)

		// nested, read-only history
		task.GET("/:id/history/", historyHandler.List)
		task.GET("/:id/history/:history_id/", historyHandler.GetByID)
	}

	// MAIL SETTINGS
	api.GET("/mail-settings/", mailSettingsHandler.Get)
	api.PUT("/mail-settings/", mailSettingsHandler.Update)

	// REPORTS
	api.GET("/reports/tasks/pdf", reportsHandler.TaskReportPDF)

	return r
}
