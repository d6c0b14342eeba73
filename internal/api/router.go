package api

import (
	"finance_tracker/internal/assistant"  // Chat assistant
	"finance_tracker/internal/middleware" // Custom package for middleware
	"finance_tracker/internal/service"    // Ledger services

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators of the HTTP layer
type Deps struct {
	DB            *gorm.DB
	Redis         *redis.Client // Nil disables caching
	Cache         *Cache
	JWTSecret     string
	Auth          *service.AuthService
	Accounts      *service.AccountService
	Categories    *service.CategoryService
	Transactions  *service.TransactionService
	Goals         *service.GoalService
	Statistics    *service.StatisticsService
	Notifications *service.NotificationService
	Admin         *service.AdminService
	Assistant     *assistant.Assistant
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(d Deps) *gin.Engine {
	RegisterValidators()
	if d.Cache == nil {
		d.Cache = NewCache(d.Redis, 0)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware(), middleware.LoggerMiddleware())

	r.GET("/healthz", HealthHandler())            // Liveness probe
	r.GET("/readyz", ReadyHandler(d.DB, d.Redis)) // Readiness probe

	apiGroup := r.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", RegisterHandler(d.Auth)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(d.Auth))       // Login endpoint

	// Everything below requires a bearer token
	protected := apiGroup.Group("")
	protected.Use(middleware.JWTAuthMiddleware(d.JWTSecret))

	protected.GET("/profile", GetProfileHandler(d.Auth))
	protected.PUT("/profile", UpdateProfileHandler(d.Auth))
	protected.PUT("/profile/password", ChangePasswordHandler(d.Auth))

	accounts := protected.Group("/accounts")
	accounts.GET("", ListAccountsHandler(d.Accounts))
	accounts.GET("/:id", GetAccountHandler(d.Accounts))
	accounts.POST("", CreateAccountHandler(d.Accounts, d.Cache))
	accounts.PUT("/:id", UpdateAccountHandler(d.Accounts, d.Cache))
	accounts.DELETE("/:id", DeleteAccountHandler(d.Accounts, d.Cache))

	categories := protected.Group("/categories")
	categories.GET("", ListCategoriesHandler(d.Categories, d.Cache))
	categories.POST("", CreateCategoryHandler(d.Categories, d.Cache))
	categories.PUT("/:id", UpdateCategoryHandler(d.Categories, d.Cache))
	categories.DELETE("/:id", DeleteCategoryHandler(d.Categories, d.Cache))

	transactions := protected.Group("/transactions")
	transactions.GET("", ListTransactionsHandler(d.Transactions))
	transactions.GET("/summary", TransactionSummaryHandler(d.Transactions))
	transactions.GET("/:id", GetTransactionHandler(d.Transactions))
	transactions.POST("", CreateTransactionHandler(d.Transactions, d.Cache))
	transactions.PUT("/:id", UpdateTransactionHandler(d.Transactions, d.Cache))
	transactions.DELETE("/:id", DeleteTransactionHandler(d.Transactions, d.Cache))

	goals := protected.Group("/goals")
	goals.GET("", ListGoalsHandler(d.Goals))
	goals.GET("/:id", GetGoalHandler(d.Goals))
	goals.POST("", CreateGoalHandler(d.Goals, d.Cache))
	goals.PUT("/:id", UpdateGoalHandler(d.Goals, d.Cache))
	goals.DELETE("/:id", DeleteGoalHandler(d.Goals, d.Cache))
	goals.POST("/:id/add-funds", AddFundsHandler(d.Goals, d.Cache))

	stats := protected.Group("/statistics")
	stats.GET("/overview", OverviewHandler(d.Statistics, d.Cache))
	stats.GET("/summary", SummaryHandler(d.Statistics, d.Cache))
	stats.GET("/trend", TrendHandler(d.Statistics, d.Cache))
	stats.GET("/by-category", ByCategoryHandler(d.Statistics, d.Cache))
	stats.GET("/calendar", CalendarHandler(d.Statistics, d.Cache))

	protected.POST("/ai-assistant", AssistantHandler(d.Assistant, d.Cache))
	protected.POST("/ai-assistant/create-transaction", AssistantCreateTransactionHandler(d.Assistant, d.Cache))

	protected.GET("/notifications", ListNotificationsHandler(d.Notifications))
	protected.PUT("/notifications/:id/read", MarkNotificationReadHandler(d.Notifications))

	// Admin routes (protected, admin only)
	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware(d.Admin))
	adminGroup.GET("/users", ListUsersHandler(d.Admin, d.Cache))                  // List users endpoint
	adminGroup.GET("/transactions", ListAllTransactionsHandler(d.Admin, d.Cache)) // List transactions endpoint

	return r
}
