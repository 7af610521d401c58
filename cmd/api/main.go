package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"moneta/internal/clock"
	"moneta/internal/config"
	"moneta/internal/database"
	"moneta/internal/handlers"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/services"
	"moneta/internal/tasks"
	"moneta/internal/validator"

	_ "moneta/internal/docs" // Import swagger docs
)

// @title           Moneta API
// @version         1.0
// @description     Moneta is a personal finance ledger: accounts, transactions, reminders, credit-card statement projection, cash-flow forecasting and budgets.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API key.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.APIKey == "" {
		return fmt.Errorf("API_KEY must be set")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Services
	db := dbManager.DB()
	clk := clock.New(appConfig.Timezone)
	optionService := services.NewOptionService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, clk)
	cashFlowService := services.NewCashFlowService(db, clk, optionService)
	reminderService := services.NewReminderService(db, clk, transactionService)
	budgetService := services.NewBudgetService(db, clk)
	tagService := services.NewTagService(db, clk)
	archiveService := services.NewArchiveService(db, optionService)
	referenceService := services.NewReferenceService(db)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, cashFlowService, clk)
	transactionHandler := handlers.NewTransactionHandler(transactionService, cashFlowService, clk)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	tagHandler := handlers.NewTagHandler(tagService)
	optionHandler := handlers.NewOptionHandler(optionService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)

	// Background jobs
	scheduler := tasks.NewScheduler(clk, reminderService, budgetService, archiveService, tasks.NewBackup(appConfig))
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth())

	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:account_id", accountHandler.GetAccount)
	accounts.PUT("/:account_id", accountHandler.UpdateAccount)
	accounts.DELETE("/:account_id", accountHandler.DeleteAccount)
	accounts.GET("/forecast/:account_id", accountHandler.Forecast)

	transactions := v1.Group("/transactions")
	transactions.GET("/account/:account_id", transactionHandler.ListByAccount)
	transactions.GET("/tag/:tag_id", transactionHandler.ListByTag)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:transaction_id", transactionHandler.GetTransaction)
	transactions.PUT("/:transaction_id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:transaction_id", transactionHandler.DeleteTransaction)
	transactions.POST("/:transaction_id/clear", transactionHandler.ClearTransaction)

	reminders := v1.Group("/reminders")
	reminders.GET("", reminderHandler.ListReminders)
	reminders.POST("", reminderHandler.CreateReminder)
	reminders.GET("/:reminder_id", reminderHandler.GetReminder)
	reminders.PUT("/:reminder_id", reminderHandler.UpdateReminder)
	reminders.DELETE("/:reminder_id", reminderHandler.DeleteReminder)
	reminders.POST("/:reminder_id/exclusions", reminderHandler.AddExclusion)
	reminders.DELETE("/:reminder_id/exclusions", reminderHandler.RemoveExclusion)

	budgets := v1.Group("/budgets")
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:budget_id", budgetHandler.GetBudget)
	budgets.PUT("/:budget_id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:budget_id", budgetHandler.DeleteBudget)

	tags := v1.Group("/tags")
	tags.GET("", tagHandler.ListTags)
	tags.POST("", tagHandler.CreateTag)
	tags.DELETE("/:tag_id", tagHandler.DeleteTag)
	tags.GET("/:tag_id/graph", tagHandler.TagGraph)
	tags.GET("/main", referenceHandler.ListMainTags)
	tags.POST("/main", tagHandler.CreateMainTag)
	tags.PUT("/main/:main_tag_id", tagHandler.UpdateMainTag)
	tags.GET("/sub", referenceHandler.ListSubTags)
	tags.POST("/sub", tagHandler.CreateSubTag)
	tags.PUT("/sub/:sub_tag_id", tagHandler.UpdateSubTag)

	options := v1.Group("/options")
	options.GET("", optionHandler.GetOptions)
	options.PUT("", optionHandler.UpdateOptions)

	banks := v1.Group("/banks")
	banks.GET("", referenceHandler.ListBanks)
	banks.POST("", referenceHandler.CreateBank)
	banks.PUT("/:bank_id", referenceHandler.UpdateBank)
	banks.DELETE("/:bank_id", referenceHandler.DeleteBank)

	payees := v1.Group("/payees")
	payees.GET("", referenceHandler.ListPayees)
	payees.POST("", referenceHandler.CreatePayee)
	payees.DELETE("/:payee_id", referenceHandler.DeletePayee)

	accountTypes := v1.Group("/account-types")
	accountTypes.GET("", referenceHandler.ListAccountTypes)
	accountTypes.POST("", referenceHandler.CreateAccountType)
	accountTypes.PUT("/:account_type_id", referenceHandler.UpdateAccountType)

	tagTypes := v1.Group("/tag-types")
	tagTypes.GET("", referenceHandler.ListTagTypes)
	tagTypes.POST("", referenceHandler.CreateTagType)

	repeats := v1.Group("/repeats")
	repeats.GET("", referenceHandler.ListRepeats)
	repeats.POST("", referenceHandler.CreateRepeat)

	v1.GET("/transaction-types", referenceHandler.ListTransactionTypes)
	v1.GET("/transaction-statuses", referenceHandler.ListTransactionStatuses)

	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting Moneta backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
