package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carenote/carenote-api/internal/config"
	"github.com/carenote/carenote-api/internal/email"
	"github.com/carenote/carenote-api/internal/repository/postgres"
	"github.com/carenote/carenote-api/internal/worker"
	"github.com/carenote/carenote-api/pkg/logger"
	"github.com/carenote/carenote-api/pkg/messaging"
	messagingRedis "github.com/carenote/carenote-api/pkg/messaging/redis"
	"github.com/carenote/carenote-api/pkg/metrics"
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

	userRepo := postgres.NewUserRepository(db)
	stepRepo := postgres.NewStepRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	mailer := email.NewSMTPService(cfg.SMTP)

	// Reminder events are best-effort; run without a broker when Redis is
	// not configured.
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = messagingRedis.NewRedisBroker(messagingRedis.Config{
			URL:      cfg.Redis.URL,
			PoolSize: cfg.Redis.PoolSize,
		}, &log.ZL)
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()
	}

	m := metrics.New("carenote_reminder")

	w := worker.NewReminderWorker(
		stepRepo,
		reminderRepo,
		userRepo,
		mailer,
		broker,
		log.ZL,
		m,
		worker.Config{
			Interval:   cfg.Reminder.Interval,
			ErrorDelay: cfg.Reminder.ErrorDelay,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthSrv := startHealthServer(cfg.Reminder.HealthPort, db, log)

	w.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "health server shutdown")
	}

	log.Info("reminder scheduler exited")
}

func startHealthServer(port int, db interface{ Ping() error }, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "health server stopped")
		}
	}()

	return srv
}
