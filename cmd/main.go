package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/dtnguyen2107/talentpulse/config"
	"github.com/dtnguyen2107/talentpulse/database"
	_ "github.com/dtnguyen2107/talentpulse/docs" // Swagger docs - auto-generated
	"github.com/dtnguyen2107/talentpulse/internal/controller"
	"github.com/dtnguyen2107/talentpulse/internal/logger"
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"github.com/dtnguyen2107/talentpulse/internal/repository"
	"github.com/dtnguyen2107/talentpulse/internal/service"
)

// @title TalentPulse Assessment API
// @version 1.0
// @description Candidate assessment API: attempt lifecycle, AI analysis of free-text answers and landing-state resolution.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewProfileRepository,
			repository.NewRoleRepository,
			repository.NewTeamRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewResultRepository,
		),

		// Services
		fx.Provide(
			service.NewGeminiService,
			service.NewPromptBuilder,
			service.NewAttemptService,
			service.NewAnalysisService,
			service.NewStateResolverService,
			service.NewCatalogService,
		),

		// Controllers
		fx.Provide(
			controller.NewAssessmentController,
			controller.NewCatalogController,
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
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
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

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	assessmentCtrl *controller.AssessmentController,
	catalogCtrl *controller.CatalogController,
) {
	apiV1 := router.Group("/api/v1")
	assessmentCtrl.RegisterRoutes(apiV1)
	catalogCtrl.RegisterRoutes(apiV1)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("TalentPulse API server starting on port %s", cfg.Server.Port)
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
	log.Info().Msg("Running database auto-migration...")
	return db.AutoMigrate(
		&model.CandidateProfile{},
		&model.Role{},
		&model.Team{},
		&model.AssessmentAttempt{},
		&model.Answer{},
		&model.AssessmentResult{},
	)
}
