package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"benchwatch/internal/courtlistener"
	"benchwatch/internal/events"
	judgestore "benchwatch/internal/judges/store"
	"benchwatch/internal/lease"
	"benchwatch/internal/platform/config"
	"benchwatch/internal/platform/httpserver"
	"benchwatch/internal/platform/logger"
	"benchwatch/internal/platform/metrics"
	"benchwatch/internal/platform/postgres"
	platformredis "benchwatch/internal/platform/redis"
	"benchwatch/internal/sync"
	"benchwatch/internal/syncrun"
	runstore "benchwatch/internal/syncrun/store"
	httptransport "benchwatch/internal/transport/http"
)

// main wires dependencies and either performs a single invocation (the shape
// a serverless trigger expects) or serves HTTP and runs on an interval.
// Engine logic lives in internal/sync.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	opts := []sync.Option{
		sync.WithLogger(log),
		sync.WithMetrics(metrics.New()),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		hostname, _ := os.Hostname()
		opts = append(opts, sync.WithLeases(lease.NewRedis(redisClient.Client, hostname)))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		opts = append(opts, sync.WithEvents(publisher))
	}

	upstream := courtlistener.NewHTTPClient(cfg.Upstream.BaseURL, cfg.Upstream.Token, cfg.Upstream.Timeout)
	recorder := syncrun.NewRecorder(runstore.NewPostgres(db), log)

	service, err := sync.New(upstream, judgestore.NewPostgres(db), recorder, opts...)
	if err != nil {
		log.Error("sync service setup failed", "error", err)
		os.Exit(1)
	}

	if cfg.RunOnce {
		result := service.Sync(context.Background(), sync.Options{})
		payload, _ := json.Marshal(result)
		fmt.Println(string(payload))
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	var cache httptransport.HealthChecker
	if redisClient != nil {
		cache = redisClient
	}
	handler := httptransport.NewHandler(service, db, cache, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("syncd listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				service.Sync(ctx, sync.Options{})
			}
		}
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("syncd exited", "error", err)
		os.Exit(1)
	}
}
