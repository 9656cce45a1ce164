package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/config"
	"github.com/haduong/smartmcq/database"
	_ "github.com/haduong/smartmcq/docs" // Swagger docs - auto-generated
	studentctrl "github.com/haduong/smartmcq/internal/controller/student"
	teacherctrl "github.com/haduong/smartmcq/internal/controller/teacher"
	"github.com/haduong/smartmcq/internal/logger"
	"github.com/haduong/smartmcq/internal/model"
	"github.com/haduong/smartmcq/internal/repository"
	"github.com/haduong/smartmcq/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Smart MCQ API
// @version 1.0
// @description API for timed multiple-choice test sessions: access-code joining, attempt tracking, server-side scoring and result release.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			service.NewSystemClock,
		),

		// Repositories layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewSessionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
		),

		// Services layer
		fx.Provide(
			service.NewAccessCodeService,
			service.NewTestService,
			service.NewSessionService,
			service.NewAttemptService,
			service.NewSubmissionService,
			service.NewResultService,
		),

		// API controllers layer
		fx.Provide(
			studentctrl.NewAttemptController,
			teacherctrl.NewTestController,
			teacherctrl.NewSessionController,
			teacherctrl.NewResultController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

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
	attemptCtrl *studentctrl.AttemptController,
	testCtrl *teacherctrl.TestController,
	sessionCtrl *teacherctrl.SessionController,
	resultCtrl *teacherctrl.ResultController,
) {
	// Teacher routes (prefixed with /api/v1/teacher)
	teacherGroup := router.Group("/api/v1/teacher")
	{
		testsGroup := teacherGroup.Group("/tests")
		testsGroup.POST("", testCtrl.CreateTest)
		testsGroup.GET("", testCtrl.ListTests)
		testsGroup.GET("/:id", testCtrl.GetTest)

		questionsGroup := teacherGroup.Group("/questions")
		questionsGroup.POST("", testCtrl.CreateQuestion)
		questionsGroup.GET("", testCtrl.ListQuestions)
		questionsGroup.DELETE("/:id", testCtrl.DeleteQuestion)

		sessionsGroup := teacherGroup.Group("/sessions")
		sessionsGroup.POST("", sessionCtrl.CreateSession)
		sessionsGroup.GET("", sessionCtrl.ListSessions)
		sessionsGroup.GET("/:id", sessionCtrl.GetSession)
		sessionsGroup.DELETE("/:id", sessionCtrl.CancelSession)
		sessionsGroup.GET("/:id/results", sessionCtrl.SessionResults)

		attemptsGroup := teacherGroup.Group("/attempts")
		attemptsGroup.POST("/release", resultCtrl.BulkRelease)
		attemptsGroup.POST("/:id/release", resultCtrl.ReleaseResult)
	}

	// Student routes (prefixed with /api/v1)
	studentGroup := router.Group("/api/v1")
	{
		studentGroup.POST("/sessions/join", attemptCtrl.JoinSession)

		studentGroup.GET("/attempts/:id/current-question", attemptCtrl.GetCurrentQuestion)
		studentGroup.POST("/attempts/:id/navigate", attemptCtrl.Navigate)
		studentGroup.POST("/attempts/:id/answers", attemptCtrl.SaveAnswer)
		studentGroup.POST("/attempts/:id/submit", attemptCtrl.Submit)
		studentGroup.GET("/attempts/:id/can-view-results", attemptCtrl.CanViewResults)
		studentGroup.GET("/attempts/:id/result", attemptCtrl.GetResult)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Smart MCQ API server starting on port %s", cfg.Server.Port)
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
		&model.Test{},
		&model.Question{},
		&model.Choice{},
		&model.TestSession{},
		&model.StudentAttempt{},
		&model.StudentAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
