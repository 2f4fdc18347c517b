package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/otabekshirinov/testhub/config"
	"github.com/otabekshirinov/testhub/database"
	_ "github.com/otabekshirinov/testhub/docs" // Swagger docs - auto-generated
	adminctrl "github.com/otabekshirinov/testhub/internal/controller/admin"
	authctrl "github.com/otabekshirinov/testhub/internal/controller/auth"
	userctrl "github.com/otabekshirinov/testhub/internal/controller/user"
	"github.com/otabekshirinov/testhub/internal/logger"
	"github.com/otabekshirinov/testhub/internal/middleware"
	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/otabekshirinov/testhub/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Knowledge Testing Platform API
// @version 1.0
// @description Timed multiple-choice tests with randomized question selection and per-answer scoring.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
			repository.NewResultRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewSelectionStore,
			service.NewAuthService,
			service.NewAdminTestService,
			service.NewUserTestService,
			service.NewAttemptService,
			service.NewResultService,
		),

		// API Controllers Layer
		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewAdminTestController,
			adminctrl.NewAdminUserController,
			userctrl.NewUserTestController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(BootstrapAdmin),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route gin's access log through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *authctrl.AuthController,
	adminTestCtrl *adminctrl.AdminTestController,
	adminUserCtrl *adminctrl.AdminUserController,
	userTestCtrl *userctrl.UserTestController,
) {
	// Public auth routes
	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/logout", authCtrl.Logout)
	}

	// User routes, session required
	userAPIGroup := router.Group("/api/v1", middleware.RequireUser(cfg))
	{
		userAPIGroup.GET("/tests", userTestCtrl.GetAllTests)
		userAPIGroup.GET("/dashboard", userTestCtrl.GetDashboard)
		userAPIGroup.GET("/tests/:test_id", userTestCtrl.GetTestOverview)

		userAPIGroup.GET("/tests/:test_id/attempt", userTestCtrl.StartAttempt)
		userAPIGroup.POST("/tests/:test_id/attempt", userTestCtrl.SubmitAttempt)

		userAPIGroup.GET("/tests/:test_id/my-results", userTestCtrl.GetMyResultsForTest)
		userAPIGroup.GET("/results/:result_id", userTestCtrl.GetMyResult)
	}

	// Admin routes
	adminAPIGroup := router.Group("/api/v1/admin", middleware.RequireUser(cfg), middleware.RequireAdmin())
	{
		adminAPIGroup.GET("/tests", adminTestCtrl.ListTests)
		adminAPIGroup.POST("/tests", adminTestCtrl.CreateTest)
		adminAPIGroup.GET("/tests/:test_id", adminTestCtrl.GetTest)
		adminAPIGroup.PUT("/tests/:test_id", adminTestCtrl.UpdateTest)
		adminAPIGroup.DELETE("/tests/:test_id", adminTestCtrl.DeleteTest)

		adminAPIGroup.POST("/tests/:test_id/questions", adminTestCtrl.AddQuestion)
		adminAPIGroup.PUT("/questions/:question_id", adminTestCtrl.UpdateQuestion)
		adminAPIGroup.DELETE("/questions/:question_id", adminTestCtrl.DeleteQuestion)

		adminAPIGroup.GET("/tests/:test_id/results", adminTestCtrl.GetTestResults)
		adminAPIGroup.GET("/results/:result_id", adminTestCtrl.GetResult)

		adminAPIGroup.GET("/users", adminUserCtrl.ListUsers)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Testing platform API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.TestResult{},
		&model.UserAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// BootstrapAdmin guarantees an admin account exists before the server
// starts accepting requests.
func BootstrapAdmin(authService service.AuthService) error {
	return authService.EnsureDefaultAdmin()
}
