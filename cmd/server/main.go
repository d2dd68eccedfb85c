// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/internal/allocation/cache"
	allochandler "github.com/ctabha/coop-training/internal/allocation/handler"
	"github.com/ctabha/coop-training/internal/allocation/metrics"
	allocstore "github.com/ctabha/coop-training/internal/allocation/store"
	"github.com/ctabha/coop-training/internal/audit"
	"github.com/ctabha/coop-training/internal/auth"
	authhandler "github.com/ctabha/coop-training/internal/auth/handler"
	"github.com/ctabha/coop-training/internal/letter"
	"github.com/ctabha/coop-training/internal/platform/config"
	"github.com/ctabha/coop-training/internal/platform/httpserver"
	"github.com/ctabha/coop-training/internal/platform/logger"
	platformredis "github.com/ctabha/coop-training/internal/platform/redis"
	"github.com/ctabha/coop-training/internal/roster"
	httptransport "github.com/ctabha/coop-training/internal/transport/http"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error("assignment store init failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	opts := []allocation.Option{
		allocation.WithLogger(log),
		allocation.WithMetrics(metrics.New()),
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, allocation.WithCapacityCache(cache.New(redisClient.Client, 0)))
	}

	publisher := audit.NewPublisher(256, log)
	opts = append(opts, allocation.WithAuditor(publisher))

	var sink audit.Sink = audit.NewMemorySink()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit sink init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}

	source := roster.SourceForPath(cfg.RosterPath)
	service, err := allocation.NewService(source, store, opts...)
	if err != nil {
		log.Error("allocation service init failed", "error", err)
		os.Exit(1)
	}
	if err := service.Reload(ctx); err != nil {
		log.Error("initial roster load failed", "roster", cfg.RosterPath, "error", err)
		os.Exit(1)
	}

	letters, err := letter.NewRenderer()
	if err != nil {
		log.Error("letter template init failed", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(service, cfg.JWTSigningKey, cfg.SessionTTL,
		auth.WithAuditor(publisher))
	router := httptransport.NewRouter(log,
		authhandler.New(authService, log),
		allochandler.New(service, letters, authService, cfg.AdminToken, log),
	)

	srv := httpserver.New(cfg.Addr, router)
	worker := audit.NewWorker(sink, publisher.Inbox(), log)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting coop-training server", "addr", cfg.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg config.Config) (allocation.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return allocstore.NewInMemory(), func() {}, nil
	case "file":
		s, err := allocstore.NewFile(filepath.Join(cfg.DataDir, "assignments.json"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		s := allocstore.NewPostgres(db)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	}
	return nil, nil, nil
}
