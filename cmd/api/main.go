package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sgovph/sgov-backend/internal/attendance"
	"github.com/sgovph/sgov-backend/internal/clearance"
	"github.com/sgovph/sgov-backend/internal/config"
	"github.com/sgovph/sgov-backend/internal/ctxutil"
	"github.com/sgovph/sgov-backend/internal/db"
	"github.com/sgovph/sgov-backend/internal/directory"
	"github.com/sgovph/sgov-backend/internal/events"
	"github.com/sgovph/sgov-backend/internal/httpapi"
	"github.com/sgovph/sgov-backend/internal/jobs"
	"github.com/sgovph/sgov-backend/internal/logging"
	"github.com/sgovph/sgov-backend/internal/messaging"
	"github.com/sgovph/sgov-backend/internal/metrics"
	"github.com/sgovph/sgov-backend/internal/notify"
	"github.com/sgovph/sgov-backend/internal/observability"
	"github.com/sgovph/sgov-backend/internal/points"
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

	lg, err := logging.Init("api", cfg.LogLevel, cfg.Env)
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

	if err := db.Migrate(database); err != nil {
		lg.Sugar.Fatalw("db migrate", "err", err)
	}

	var queue notify.Queue
	switch cfg.QueueBackend {
	case "memory":
		queue = notify.NewInMemory(1024)
	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Sugar.Fatalw("redis ping", "addr", cfg.RedisAddr, "err", err)
		}
		defer rdb.Close()
		queue = notify.NewRedisQueue(rdb, "sgov:notifications")
	}
	sink := notify.NewQueueSink(queue, lg.Base)

	dirRepo := directory.NewRepo(database)
	notifyRepo := notify.NewRepo(database)
	eventsRepo := events.NewRepo(database)

	dirSvc := directory.NewService(dirRepo, cfg.QRServiceURL)
	attSvc := attendance.NewService(attendance.NewRepo(database), sink, lg.Base)
	clrSvc := clearance.NewService(clearance.NewRepo(database), dirRepo, sink, lg.Base)
	ptsSvc := points.NewService(points.NewRepo(database), sink)
	msgSvc := messaging.NewService(messaging.NewRepo(database), sink, lg.Base)

	// The in-memory queue is process-local, so its consumer has to live here.
	if cfg.QueueBackend == "memory" {
		worker := notify.NewWorker(queue, notifyRepo, lg.Base)
		go func() {
			if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
				lg.Sugar.Errorw("notification worker stopped", "err", err)
			}
		}()
	}

	runner := jobs.New(ctx)
	runner.Every(15*time.Minute, "event_reminders",
		jobs.NewEventReminders(eventsRepo, sink, lg.Base).Run)
	runner.Every(30*time.Second, "queue_depth", func(ctx context.Context) error {
		depth, err := queue.Depth(ctx)
		if err != nil {
			return err
		}
		metrics.QueueDepth.Set(float64(depth))
		return nil
	})

	srv := httpapi.NewServer(httpapi.Deps{
		Cfg:        cfg,
		Log:        lg,
		DB:         database,
		Directory:  dirSvc,
		DirRepo:    dirRepo,
		Attendance: attSvc,
		Clearance:  clrSvc,
		Points:     ptsSvc,
		Messaging:  msgSvc,
		Events:     eventsRepo,
		Notify:     notifyRepo,
	})

	lg.Sugar.Infow("api listening", "addr", cfg.HTTPAddr, "env", cfg.Env, "version", version)
	if err := srv.Serve(ctx); err != nil {
		observability.CaptureErr(err)
		lg.Base.Fatal("server exited", zap.Error(err))
	}
	lg.Sugar.Infow("shutdown complete")
}
