package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/handlers"
	"taskmanager/internal/middleware"
	"taskmanager/internal/pdf"
	"taskmanager/internal/repositories"
	"taskmanager/internal/routes"
	"taskmanager/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "taskmanager/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	historyRepo := repositories.NewTaskHistoryRepository(db)
	reportRepo := repositories.NewEmailReportRepository(db)

	// === Services ===
	authService := services.NewAuthService([]byte(cfg.Auth.JWTSecret))
	userService := services.NewUserService(userRepo, reportRepo, authService)
	taskService := services.NewTaskService(taskRepo, historyRepo)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	digestService := services.NewDigestService(reportRepo, userRepo, taskRepo, emailService)

	pdfGen := pdf.NewReportGenerator()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	historyHandler := handlers.NewHistoryHandler(taskService)
	mailSettingsHandler := handlers.NewMailSettingsHandler(reportRepo)
	reportsHandler := handlers.NewReportsHandler(taskService, userService, pdfGen)

	// === Digest worker ===
	// Shares only the storage layer with the web surface; partial progress on
	// a tick is fine, unadvanced schedules are picked up next tick.
	interval := time.Duration(cfg.Digest.IntervalSeconds) * time.Second
	go digestService.Run(context.Background(), interval)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		taskHandler,
		historyHandler,
		mailSettingsHandler,
		reportsHandler,
		middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret)),
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
