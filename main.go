package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leejgdh/youtube-dj/internal/api"
	"github.com/leejgdh/youtube-dj/internal/api/middleware"
	"github.com/leejgdh/youtube-dj/internal/auth"
	"github.com/leejgdh/youtube-dj/internal/config"
	"github.com/leejgdh/youtube-dj/internal/db"
	"github.com/leejgdh/youtube-dj/internal/intake"
	"github.com/leejgdh/youtube-dj/internal/logging"
	"github.com/leejgdh/youtube-dj/internal/queue"
	"github.com/leejgdh/youtube-dj/internal/realtime"
	"github.com/leejgdh/youtube-dj/internal/youtube"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.GeneratedSecret {
		log.Warn("JWT_SECRET not set, using random secret; admin sessions will not survive restarts")
	}

	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	log.Info("admin user ensured", zap.String("username", cfg.AdminUsername))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mirror realtime.Mirror
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, mirror will retry per frame", zap.Error(err))
		}
		m := realtime.NewRedisMirror(rdb, cfg.RedisChannel, log)
		go m.Run(ctx)
		mirror = m
		log.Info("event mirror enabled", zap.String("channel", cfg.RedisChannel))
	}

	engine := queue.NewEngine(log, cfg.HistoryLimit)
	hub := realtime.NewHub(engine, mirror, log)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	meta := youtube.NewClient(cfg.OEmbedURL, log)
	preparer := intake.NewPreparer(database, meta, log)
	intakeQueue := intake.NewQueue(cfg.IntakeWorkers, preparer.Prepare, log)
	defer intakeQueue.Stop()

	limiter := middleware.NewRateLimiter(ctx, cfg.RequestRateLimit, cfg.RateLimitWindow)
	ws := realtime.NewServer(hub, intakeQueue, middleware.NormalizeOrigins(cfg.CORSOrigins), log)

	router := api.NewRouter(cfg, api.Deps{
		DB:      database,
		JWT:     auth.NewJWTService(cfg.JWTSecret),
		Hub:     hub,
		Meta:    meta,
		Intake:  intakeQueue,
		Limiter: limiter,
		WS:      ws.ServeWS,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("db", cfg.DBPath),
			zap.Int("intake_workers", cfg.IntakeWorkers), zap.Int("history_limit", cfg.HistoryLimit))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	<-hubDone
	return nil
}
