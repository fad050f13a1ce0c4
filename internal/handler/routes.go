package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
)

// Handlers bundles every route handler
type Handlers struct {
	Health         *HealthHandler
	Auth           *AuthHandler
	User           *UserHandler
	Dashboard      *DashboardHandler
	Insight        *InsightHandler
	Category       *CategoryHandler
	Movement       *MovementHandler
	Receipt        *ReceiptHandler
	PlannedExpense *PlannedExpenseHandler
	ActivityLog    *ActivityLogHandler
	WebSocket      *WebSocketHandler
}

// RateLimiters holds the per-IP limiters of the sensitive routes
type RateLimiters struct {
	Login   *middleware.RateLimiter
	Account *middleware.RateLimiter
}

// RegisterRoutes sets up all API routes. Paths are registered without a trailing
// slash; the server strips it before routing.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, txManager domain.TxManager, limiters RateLimiters, h Handlers) {
	tx := middleware.Transactional(txManager)
	loginLimit := middleware.RateLimitMiddleware(limiters.Login)
	accountLimit := middleware.RateLimitMiddleware(limiters.Account)

	// Public routes
	e.GET("/", h.Health.Root)
	e.GET("/health", h.Health.Health)
	e.POST("/auth/token", h.Auth.Token, loginLimit)
	e.POST("/users/register", h.User.Register, accountLimit, tx)
	e.GET("/ws", h.WebSocket.HandleWS)

	// User routes (protected)
	users := e.Group("/users/me")
	users.Use(authMiddleware.Authenticate())
	users.GET("", h.User.Me)
	users.PATCH("/update_details", h.User.UpdateDetails, tx)
	users.PATCH("/update_password", h.User.UpdatePassword, accountLimit, tx)
	users.DELETE("", h.User.Delete, accountLimit, tx)
	users.GET("/dashboard", h.Dashboard.GetDashboard)
	users.GET("/minijobs_balance", h.Dashboard.GetMinijobsBalance)
	users.GET("/balance/:category_type", h.Dashboard.GetCategoryTypeBalance)
	users.GET("/insights", h.Insight.GetInsights)

	// Category routes (protected)
	categories := e.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.CreateCategory, tx)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PATCH("/:id", h.Category.UpdateCategory, tx)
	categories.DELETE("/:id", h.Category.DeleteCategory, tx)
	categories.GET("/:id/movements", h.Category.GetCategoryMovements)

	// Movement routes (protected)
	movements := e.Group("/movements")
	movements.Use(authMiddleware.Authenticate())
	movements.GET("", h.Movement.GetMovements)
	movements.POST("", h.Movement.CreateMovement, tx)
	movements.GET("/:id", h.Movement.GetMovement)
	movements.PATCH("/:id", h.Movement.UpdateMovement, tx)
	movements.DELETE("/:id", h.Movement.DeleteMovement, tx)
	movements.POST("/:id/activity_logs", h.Movement.CreateActivityLog, tx)
	movements.PUT("/:id/receipt", h.Receipt.UploadReceipt, tx)
	movements.GET("/:id/receipt", h.Receipt.GetReceipt)
	movements.DELETE("/:id/receipt", h.Receipt.DeleteReceipt, tx)

	// Planned expense routes (protected)
	plannedExpenses := e.Group("/planned_expenses")
	plannedExpenses.Use(authMiddleware.Authenticate())
	plannedExpenses.GET("", h.PlannedExpense.GetPlannedExpenses)
	plannedExpenses.POST("", h.PlannedExpense.CreatePlannedExpense, tx)
	plannedExpenses.GET("/:id", h.PlannedExpense.GetPlannedExpense)
	plannedExpenses.PATCH("/:id", h.PlannedExpense.UpdatePlannedExpense, tx)
	plannedExpenses.DELETE("/:id", h.PlannedExpense.DeletePlannedExpense, tx)

	// Activity log routes (protected)
	activityLogs := e.Group("/activity_logs")
	activityLogs.Use(authMiddleware.Authenticate())
	activityLogs.GET("", h.ActivityLog.GetActivityLogs)
	activityLogs.GET("/:id", h.ActivityLog.GetActivityLog)
	activityLogs.PATCH("/:id", h.ActivityLog.UpdateActivityLog, tx)
	activityLogs.DELETE("/:id", h.ActivityLog.DeleteActivityLog, tx)
}
