package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/habitflow/habitflow-backend/internal/handlers"
	"github.com/habitflow/habitflow-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AllowOrigins      []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	HabitHandler      *handlers.HabitHandler
	CategoryHandler   *handlers.CategoryHandler
	GoalHandler       *handlers.GoalHandler
	CompletionHandler *handlers.CompletionHandler
	StreakHandler     *handlers.StreakHandler
	ReportHandler     *handlers.ReportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.GET("/user", cfg.UserHandler.GetMe)

		protected.GET("/habits", cfg.HabitHandler.List)
		protected.POST("/habits", cfg.HabitHandler.Create)
		protected.GET("/habits/:id", cfg.HabitHandler.Get)
		protected.PUT("/habits/:id", cfg.HabitHandler.Update)
		protected.DELETE("/habits/:id", cfg.HabitHandler.Delete)

		protected.POST("/habits/:id/logs", cfg.CompletionHandler.LogCompletion)
		protected.GET("/habits/:id/logs", cfg.CompletionHandler.ListLogs)
		protected.GET("/habits/:id/streak", cfg.StreakHandler.GetStreak)
		protected.GET("/habits/:id/consistency", cfg.CompletionHandler.ConsistencyScore)

		protected.GET("/categories", cfg.CategoryHandler.List)
		protected.POST("/categories", cfg.CategoryHandler.Create)
		protected.PUT("/categories/:id", cfg.CategoryHandler.Update)
		protected.DELETE("/categories/:id", cfg.CategoryHandler.Delete)

		protected.GET("/goals", cfg.GoalHandler.List)
		protected.POST("/goals", cfg.GoalHandler.Create)
		protected.PUT("/goals/:id", cfg.GoalHandler.Update)
		protected.DELETE("/goals/:id", cfg.GoalHandler.Delete)

		protected.GET("/reports", cfg.ReportHandler.GetReport)
		protected.POST("/streaks/recalculate", cfg.StreakHandler.RecalculateAll)
	}

	return router
}
