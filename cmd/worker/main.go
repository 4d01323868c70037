package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sgovph/sgov-backend/internal/config"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/db"
	"github.com/sgovph/sgov-backend/internal/logging"
	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/notify"
	"github.com/sgovph/sgov-backend/internal/observability"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctxutil.DefaultDBTimeout = cfg.DBTimeout

	lg, err := logging.Init("worker", cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("db open", "err", err)
	}
	defer database.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		lg.Sugar.Fatalw("redis ping", "addr", cfg.RedisAddr, "err", err)
	}
	defer rdb.Close()
	queue := notify.NewRedisQueue(rdb, "sgov:notifications")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		if err := database.PingContext(pingCtx); err != nil {
			http.Error(w, "db not ok", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	obsSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		if err := obsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Sugar.Errorw("observability server", "err", err)
		}
	}()

	worker := notify.NewWorker(queue, notify.NewRepo(database), lg.Base)
	lg.Sugar.Infow("worker consuming", "addr", cfg.RedisAddr, "version", version)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		observability.CaptureErr(err)
		lg.Sugar.Fatalw("worker exited", "err", err)
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = obsSrv.Shutdown(shCtx)
	lg.Sugar.Infow("shutdown complete")
}
