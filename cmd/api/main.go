package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/carenote/carenote-api/internal/config"
	"github.com/carenote/carenote-api/internal/extractor"
	"github.com/carenote/carenote-api/internal/handler"
	authHandler "github.com/carenote/carenote-api/internal/handler/auth"
	doctorHandler "github.com/carenote/carenote-api/internal/handler/doctor"
	patientHandler "github.com/carenote/carenote-api/internal/handler/patient"
	userHandler "github.com/carenote/carenote-api/internal/handler/user"
	"github.com/carenote/carenote-api/internal/middleware"
	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository/postgres"
	"github.com/carenote/carenote-api/internal/router"
	authService "github.com/carenote/carenote-api/internal/service/auth"
	noteService "github.com/carenote/carenote-api/internal/service/note"
	userService "github.com/carenote/carenote-api/internal/service/user"
	"github.com/carenote/carenote-api/pkg/auth"
	"github.com/carenote/carenote-api/pkg/logger"
	"github.com/carenote/carenote-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	stepRepo := postgres.NewStepRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	// Security primitives
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	encryptor, err := security.NewAESEncryptor([]byte(cfg.Encryption.Key))
	if err != nil {
		log.Fatal(err, "failed to initialize note encryption")
	}

	// Note-to-steps extraction
	gen, err := extractor.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal(err, "failed to initialize generator client")
	}
	extractorSvc := extractor.NewService(gen, log.ZL)

	// Services
	authSvc := authService.NewService(userRepo, jwtSvc)
	userSvc := userService.NewService(userRepo, stepRepo, reminderRepo, noteRepo, encryptor.DecryptString)
	noteSvc := noteService.NewService(userRepo, noteRepo, stepRepo, extractorSvc, encryptor, log.ZL)

	// Custom binding validators
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("userrole", model.UserRoleValidator); err != nil {
			log.Fatal(err, "failed to register role validator")
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		userHandler.NewHandler(userSvc),
		doctorHandler.NewHandler(userSvc, noteSvc),
		patientHandler.NewHandler(userSvc),
		handler.NewHandler(db),
		router.Config{
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.ZL.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
