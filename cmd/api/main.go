package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/http-server/handlers/event"
	"github.com/fentashot/casino/internal/http-server/handlers/job"
	"github.com/fentashot/casino/internal/http-server/handlers/mysql"
	"github.com/fentashot/casino/internal/http-server/handlers/roulette/spin"
	"github.com/fentashot/casino/internal/http-server/handlers/seed"
	"github.com/fentashot/casino/internal/http-server/handlers/user/balance"
	"github.com/fentashot/casino/internal/http-server/middleware/auth"
	logmw "github.com/fentashot/casino/internal/http-server/middleware/logger"
	"github.com/fentashot/casino/internal/lib/logger/handler/slogpretty"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/metrics"
	"github.com/fentashot/casino/internal/producer"
	"github.com/fentashot/casino/internal/repository"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting server...", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = db.Ping(); err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	dbhandler := mysql.New(db)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	publisher := event.NewRedisEvent(log, redisClient, cfg.EventChannel)

	var audit *producer.KafkaPublisher
	if cfg.KafkaBrokers != "" {
		audit = producer.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.AuditTopic)
		defer audit.Close()
	}

	job.Queue = make(job.JobQueue, 64)

	pool := job.NewWorkerPool(4, job.Queue)
	pool.Start()
	defer pool.Stop()

	seedRep := repository.NewSeedRepository(*dbhandler)
	spinRep := repository.NewSpinRepository(*dbhandler)
	balanceRep := repository.NewUserBalanceRepository(*dbhandler)

	seedManager := seed.NewManager(seedRep, dbhandler, log)
	seedHandler := seed.NewHandler(seedManager, log)

	orchestrator := spin.NewOrchestrator(seedRep, spinRep, balanceRep, dbhandler, cfg.StartingBalance, log)
	spinHandler := spin.NewHandler(log, orchestrator, spinRep, balanceRep, publisher, audit, cfg.EventChannel)

	balanceHandler := balance.New(log, balanceRep, dbhandler, publisher, cfg.EventChannel, cfg.StartingBalance)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logmw.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/casino", func(r chi.Router) {
		r.Get("/seed", seedHandler.Hash())

		r.Group(func(r chi.Router) {
			r.Use(auth.UserID)

			r.Post("/spin", spinHandler.Spin())
			r.Get("/history", spinHandler.History())
			r.Get("/nonce", spinHandler.Nonce())
			r.Get("/balance", balanceHandler.Get())
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Admin(cfg.AdminToken))

			r.Post("/rotate", seedHandler.Rotate())
			r.Post("/reveal", seedHandler.Reveal())
			r.Get("/seeds", seedHandler.List())
			r.Post("/adjust", balanceHandler.Adjust())
		})
	})

	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	defer metricsSrv.Close()

	log.Info("Server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err = srv.ListenAndServe(); err != nil {
		log.Error("Server failed", sl.Err(err))
	}

	log.Error("Server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlogLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlogLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
