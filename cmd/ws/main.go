package main

import (
	"context"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/config"
	"github.com/fentashot/casino/internal/lib/logger/handler/slogpretty"
	"github.com/fentashot/casino/internal/lib/logger/sl"
	"github.com/fentashot/casino/internal/ws/handler"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting ws server...", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	hub := handler.NewHub(log)
	hub.RunServer()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	handler.StartRedisSubscriber(context.Background(), redisClient, cfg.EventChannel, hub)

	http.HandleFunc("/ws", hub.HandleConnection)

	addr := getAddr()

	log.Info("WS server started", slog.String("address", addr))

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error("WS server failed", sl.Err(err))
	}
}

func getAddr() string {
	if v, ok := os.LookupEnv("WS_ADDRESS"); ok {
		return v
	}

	return "localhost:8081"
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}

		log = slog.New(opts.NewPrettyHandler(os.Stdout))
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
