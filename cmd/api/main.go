package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printtrack/tracking-service/internal/application"
	"github.com/printtrack/tracking-service/internal/config"
	"github.com/printtrack/tracking-service/internal/infrastructure/messaging"
	mongoRepo "github.com/printtrack/tracking-service/internal/infrastructure/mongodb"
	"github.com/printtrack/tracking-service/pkg/api"
	"github.com/printtrack/tracking-service/pkg/kafka"
	"github.com/printtrack/tracking-service/pkg/logging"
	"github.com/printtrack/tracking-service/pkg/metrics"
	"github.com/printtrack/tracking-service/pkg/middleware"
	"github.com/printtrack/tracking-service/pkg/mongodb"
)

const serviceName = "tracking-service"

func main() {
	// Load configuration
	cfg, err := config.Load(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Setup logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(cfg.LogLevel)
	logConfig.Environment = cfg.Environment
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting tracking-service API")

	ctx := context.Background()

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoClientConfig())
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

	// Initialize Kafka producer with instrumentation and circuit breaking
	producer := kafka.NewProductionProducer(cfg.KafkaProducerConfig(), m, logger)
	publisher := messaging.NewKafkaEventPublisher(producer)
	defer publisher.Close()
	logger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers)

	// Initialize repositories and file store
	orderRepo := mongoRepo.NewOrderRepository(mongoClient.Database(), m)
	materialRepo := mongoRepo.NewMaterialRepository(mongoClient.Database(), m)
	userRepo := mongoRepo.NewUserRepository(mongoClient.Database(), m)

	fileStore, err := mongoRepo.NewFileStore(mongoClient.Database(), cfg.Files.BaseURL)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize file store")
		os.Exit(1)
	}

	// Initialize business metrics helper
	businessMetrics := middleware.NewBusinessMetrics(m)

	// Initialize application services
	orderService := application.NewOrderApplicationService(orderRepo, fileStore, publisher, logger, businessMetrics)
	materialService := application.NewMaterialApplicationService(materialRepo, publisher, logger, businessMetrics)
	dashboardService := application.NewDashboardApplicationService(orderRepo, materialRepo, logger, businessMetrics)
	userService := application.NewUserApplicationService(userRepo, logger)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.Actor(&middleware.ActorConfig{Required: cfg.Actor.Required}))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", createOrderHandler(orderService, logger))
			orders.GET("", listOrdersHandler(orderService, logger))
			orders.GET("/recent", recentOrdersHandler(orderService, logger))
			orders.GET("/:orderId", getOrderHandler(orderService, logger))
			orders.PUT("/:orderId/stages/:stage/status", setStageStatusHandler(orderService, logger))
			orders.PUT("/:orderId/stages/:stage/notes", saveStageNotesHandler(orderService, logger))
			orders.POST("/:orderId/stages/:stage/files", attachStageFileHandler(orderService, logger))
		}

		v1.GET("/files/:fileId", downloadFileHandler(orderService, logger))

		materials := v1.Group("/materials")
		{
			materials.POST("", createMaterialHandler(materialService, logger))
			materials.GET("", listMaterialsHandler(materialService, logger))
			materials.GET("/:materialId", getMaterialHandler(materialService, logger))
			materials.PUT("/:materialId/adjust", adjustStockHandler(materialService, logger))
		}

		v1.GET("/dashboard/summary", dashboardSummaryHandler(dashboardService, logger))
		v1.GET("/users", listUsersHandler(userService, logger))
	}

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	ClientName string `json:"clientName" binding:"required,min=1,max=200"`
}

// SetStageStatusRequest is the request body for a stage status change
type SetStageStatusRequest struct {
	Status string `json:"status" binding:"required,stage_status"`
}

// SaveStageNotesRequest is the request body for saving stage notes
type SaveStageNotesRequest struct {
	Notes string `json:"notes" binding:"max=5000"`
}

// CreateMaterialRequest is the request body for registering a material
type CreateMaterialRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=200"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	Unit         string  `json:"unit" binding:"required,unit"`
	MinThreshold float64 `json:"minThreshold" binding:"gte=0"`
}

// AdjustStockRequest is the request body for a stock adjustment
type AdjustStockRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

func createOrderHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req CreateOrderRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.CreateOrderCommand{
			ClientName: req.ClientName,
			CreatedBy:  middleware.GetActorID(c),
		}

		order, err := service.CreateOrder(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

func getOrderHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetOrderQuery{
			OrderID: c.Param("orderId"),
		}

		order, err := service.GetOrder(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func listOrdersHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)
		query := application.ListOrdersQuery{
			Stage:    c.Query("stage"),
			Page:     page.Page,
			PageSize: page.PageSize,
		}

		result, err := service.ListOrders(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func recentOrdersHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

		orders, err := service.RecentOrders(c.Request.Context(), limit)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": orders})
	}
}

func setStageStatusHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req SetStageStatusRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.SetStageStatusCommand{
			OrderID: c.Param("orderId"),
			Stage:   c.Param("stage"),
			Status:  req.Status,
			Actor:   middleware.GetActorID(c),
		}

		order, err := service.SetStageStatus(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func saveStageNotesHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req SaveStageNotesRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.SaveStageNotesCommand{
			OrderID: c.Param("orderId"),
			Stage:   c.Param("stage"),
			Notes:   req.Notes,
			Actor:   middleware.GetActorID(c),
		}

		order, err := service.SaveStageNotes(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// maxUploadSize caps stage file uploads at 32 MiB
const maxUploadSize = 32 << 20

func attachStageFileHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			responder.RespondBadRequest("multipart field 'file' is required")
			return
		}
		if fileHeader.Size > maxUploadSize {
			responder.RespondBadRequest("file exceeds the maximum upload size")
			return
		}

		content, err := fileHeader.Open()
		if err != nil {
			responder.RespondInternalError(err)
			return
		}
		defer content.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		cmd := application.AttachStageFileCommand{
			OrderID:     c.Param("orderId"),
			Stage:       c.Param("stage"),
			FileName:    fileHeader.Filename,
			ContentType: contentType,
			Content:     content,
			Actor:       middleware.GetActorID(c),
		}

		order, err := service.AttachStageFile(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

func downloadFileHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		file, err := service.FetchFile(c.Request.Context(), c.Param("fileId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		defer file.Content.Close()

		c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
		c.DataFromReader(http.StatusOK, -1, file.ContentType, file.Content, nil)
	}
}

func createMaterialHandler(service *application.MaterialApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req CreateMaterialRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.CreateMaterialCommand{
			Name:         req.Name,
			Quantity:     req.Quantity,
			Unit:         req.Unit,
			MinThreshold: req.MinThreshold,
			Actor:        middleware.GetActorID(c),
		}

		material, err := service.CreateMaterial(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, material)
	}
}

func getMaterialHandler(service *application.MaterialApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		material, err := service.GetMaterial(c.Request.Context(), c.Param("materialId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, material)
	}
}

func listMaterialsHandler(service *application.MaterialApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		materials, err := service.ListMaterials(c.Request.Context(), c.Query("filter"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": materials})
	}
}

func adjustStockHandler(service *application.MaterialApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req AdjustStockRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.AdjustStockCommand{
			MaterialID: c.Param("materialId"),
			Delta:      req.Delta,
			Actor:      middleware.GetActorID(c),
		}

		material, err := service.AdjustStock(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, material)
	}
}

func dashboardSummaryHandler(service *application.DashboardApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		summary, err := service.Summary(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

func listUsersHandler(service *application.UserApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		users, err := service.ListUsers(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": users})
	}
}
