package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/tax"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Tax Compliance API
// @version         1.0
// @description     Nigerian tax computation and filing backend: PIT, CIT, VAT, WHT, and PAYE summaries for registered entities.
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

	// Statutory rate tables, keyed by tax year
	regimes := tax.DefaultRegimes()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	remittanceRepo := repository.NewRemittanceRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	userService := service.NewUserService(userRepo)
	entityService := service.NewEntityService(entityRepo, auditRepo, txManager)
	incomeService := service.NewIncomeService(incomeRepo, summaryRepo, auditRepo, txManager)
	expenseService := service.NewExpenseService(regimes, expenseRepo, summaryRepo, auditRepo, txManager)
	invoiceService := service.NewInvoiceService(regimes, invoiceRepo, summaryRepo, auditRepo, txManager)
	remittanceService := service.NewRemittanceService(remittanceRepo, summaryRepo, auditRepo, txManager)
	payrollService := service.NewPayrollService(regimes, payrollRepo, summaryRepo, auditRepo, txManager)
	summaryService := service.NewSummaryService(regimes, entityRepo, incomeRepo, expenseRepo, invoiceRepo, remittanceRepo, payrollRepo, summaryRepo, auditRepo, wsHub)
	dashboardService := service.NewDashboardService(dashboardRepo, summaryRepo)
	auditService := service.NewAuditService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	entityHandler := handler.NewEntityHandler(entityService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	remittanceHandler := handler.NewRemittanceHandler(remittanceService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	summaryHandler := handler.NewSummaryHandler(summaryService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	auditHandler := handler.NewAuditHandler(auditService)

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

	// WebSocket endpoint — pushes summary recompute events to clients
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	entityHandler.RegisterRoutes(router.Group(""))
	incomeHandler.RegisterRoutes(router.Group(""))
	expenseHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	remittanceHandler.RegisterRoutes(router.Group(""))
	payrollHandler.RegisterRoutes(router.Group(""))
	summaryHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
