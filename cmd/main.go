package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	rediscache "github.com/habitflow/habitflow-backend/internal/clients/redis"
	"github.com/habitflow/habitflow-backend/internal/db"
	"github.com/habitflow/habitflow-backend/internal/handlers"
	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/middleware"
	"github.com/habitflow/habitflow-backend/internal/observability"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/server"
	"github.com/habitflow/habitflow-backend/internal/services"
	"github.com/habitflow/habitflow-backend/internal/utils"
	"gorm.io/gorm"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	port := utils.GetEnv("PORT", "8080", log)
	serviceName := utils.GetEnv("SERVICE_NAME", "habitflow", log)

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: logMode,
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(ctx)
		}()
	}

	// Database
	var gdb *gorm.DB
	switch strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log)) {
	case "sqlite":
		sqliteService, sErr := db.NewSQLiteService(utils.GetEnv("SQLITE_PATH", "habitflow.db", log), log)
		if sErr != nil {
			log.Fatal("SQLite init failed", "error", sErr)
		}
		if mErr := sqliteService.AutoMigrateAll(); mErr != nil {
			log.Fatal("SQLite auto migration failed", "error", mErr)
		}
		gdb = sqliteService.DB()
	default:
		postgresService, pErr := db.NewPostgresService(log)
		if pErr != nil {
			log.Fatal("Postgres init failed", "error", pErr)
		}
		if mErr := postgresService.AutoMigrateAll(); mErr != nil {
			log.Fatal("Postgres auto migration failed", "error", mErr)
		}
		gdb = postgresService.DB()
	}

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	categoryRepo := repos.NewCategoryRepo(gdb, log)
	habitRepo := repos.NewHabitRepo(gdb, log)
	goalRepo := repos.NewGoalRepo(gdb, log)
	completionLogRepo := repos.NewCompletionLogRepo(gdb, log)
	streakRepo := repos.NewStreakRepo(gdb, log)

	// Report cache (optional)
	reportCache, rcErr := rediscache.NewReportCache(log)
	if rcErr != nil {
		log.Warn("Report cache disabled", "error", rcErr)
		reportCache = nil
	} else {
		defer reportCache.Close()
	}

	// Services
	log.Info("Setting up services...")
	avatarService, avErr := services.NewAvatarService(log)
	if avErr != nil {
		log.Warn("Avatar generation disabled", "error", avErr)
		avatarService = nil
	}
	authService := services.NewAuthService(
		gdb, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(gdb, log, userRepo)
	categoryService := services.NewCategoryService(gdb, log, categoryRepo)
	habitService := services.NewHabitService(gdb, log, habitRepo, categoryRepo, completionLogRepo, streakRepo, reportCache)
	goalService := services.NewGoalService(gdb, log, goalRepo, habitRepo)
	streakService := services.NewStreakService(gdb, log, habitRepo, completionLogRepo, streakRepo)
	completionService := services.NewCompletionService(gdb, log, habitRepo, completionLogRepo, streakService, reportCache)
	reportService := services.NewReportService(gdb, log, habitRepo, categoryRepo, completionLogRepo, streakRepo, streakService, reportCache)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	habitHandler := handlers.NewHabitHandler(habitService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	goalHandler := handlers.NewGoalHandler(goalService)
	completionHandler := handlers.NewCompletionHandler(completionService)
	streakHandler := handlers.NewStreakHandler(streakService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router...")
	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		AllowOrigins:      origins,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		HabitHandler:      habitHandler,
		CategoryHandler:   categoryHandler,
		GoalHandler:       goalHandler,
		CompletionHandler: completionHandler,
		StreakHandler:     streakHandler,
		ReportHandler:     reportHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
