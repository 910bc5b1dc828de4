package main

import (
	"log"
	"os"

	_ "regulariza/api/swagger" // swagger docs
	"regulariza/internal/database"
	"regulariza/internal/handler"
	"regulariza/internal/middleware"
	"regulariza/internal/repository"
	"regulariza/internal/service"
	"regulariza/internal/websocket"
	"regulariza/pkg/blob"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Regulariza API
// @version         1.0
// @description     API for managing property regularization cases: document requests, admin checklists and the case timeline.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Blob storage (local disk; served under /uploads)
	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./uploads"
	}
	blobs, err := blob.NewLocalStore(storageDir, "/uploads")
	if err != nil {
		log.Fatalf("Blob store init failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	processRepo := repository.NewProcessRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	fileRepo := repository.NewFileRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)

	userService := service.NewUserService(userRepo)
	processService := service.NewProcessService(processRepo, requirementRepo, fileRepo, timelineRepo, userRepo, txManager, blobs, wsHub)
	requirementService := service.NewRequirementService(processRepo, requirementRepo, fileRepo, timelineRepo, txManager, blobs, wsHub)
	taskService := service.NewTaskService(processRepo, taskRepo, fileRepo, timelineRepo, txManager, blobs, wsHub)
	timelineService := service.NewTimelineService(processRepo, timelineRepo)
	statsService := service.NewStatsService(processRepo)
	exportService := service.NewExportService(processRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	processHandler := handler.NewProcessHandler(processService, timelineService, statsService, exportService)
	requirementHandler := handler.NewRequirementHandler(requirementService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Uploaded files (local blob store)
	router.Static("/uploads", storageDir)

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	processHandler.RegisterRoutes(router.Group(""))
	requirementHandler.RegisterRoutes(router.Group(""))
	taskHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
