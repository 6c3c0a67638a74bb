package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"cpugauge/api/rest"
	"cpugauge/api/rest/handler"
	"cpugauge/internal/adapters/redis"
	"cpugauge/internal/agent"
	"cpugauge/internal/collector/host"
	"cpugauge/internal/config"
	"cpugauge/internal/domain"
	"cpugauge/internal/event"
	"cpugauge/internal/gauge"
	"cpugauge/internal/logger"
	"cpugauge/internal/storage/snapshot"
	"cpugauge/internal/transport/websocket"
	"cpugauge/internal/workers"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("FATAL: ", err)
	}

	appLog := logger.New(cfg)
	appLog.Info("cpugauge agent: starting...", "agent_id", cfg.AgentID, "max_cpus", cfg.MaxCPUs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := event.New(appLog)
	tick := &gauge.Tick{}

	g := gauge.NewFromConfig(cfg, bus, tick, appLog)
	g.Init()

	feed := websocket.NewHub(ctx, appLog, cfg.AgentID)
	go feed.Run()
	feed.Subscribe(bus)

	store := snapshot.NewGaugeStore()
	sinks := []domain.SnapshotSink{store, feed}

	if cfg.RedisAddress != "" {
		redisClient, err := redis.Init(ctx, &redis.ClientOptions{
			Address:  cfg.RedisAddress,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			appLog.Error("failed to init redis, stream sink disabled", "error", err)
		} else {
			appLog.Info("redis connected", "stream", cfg.RedisStream)
			defer redisClient.Close()
			registry := redis.NewRegistry(redisClient, cfg.RedisStream, cfg.RedisMaxLen)
			sinks = append(sinks, registry)

			if restored, err := store.Restore(ctx, registry); err != nil {
				appLog.Warn("failed to restore last snapshot", "error", err)
			} else if restored {
				appLog.Info("restored last snapshot from redis", "stream", cfg.RedisStream)
			}
		}
	}

	var ws *agent.Agent
	if cfg.AgentTargetWsURL != "" {
		ws = agent.NewAgent(cfg, appLog)
		sinks = append(sinks, ws)
	}

	sampler := workers.NewSampleWorker(
		appLog,
		tick,
		g,
		host.NewCollector(appLog),
		workers.SampleOptions{AgentID: cfg.AgentID, LoadEvery: cfg.LoadEvery},
		sinks...,
	)

	grp, gCtx := errgroup.WithContext(ctx)

	workers.NewManager(appLog, workers.NewScheduler(appLog), cfg.UpdateInterval, sampler).Start(gCtx)

	if ws != nil {
		grp.Go(func() error {
			return ws.Run(gCtx)
		})
	}

	router := rest.NewRouter(&rest.RouterDeps{
		Metrics: handler.NewMetricsHandler(store),
		Feed:    websocket.NewHandler(feed, cfg.AllowedOrigins, appLog).Serve,
	}, appLog)
	srv := rest.NewServer(router, cfg.Address)

	grp.Go(func() error {
		appLog.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	grp.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		feed.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLog.Error("http: server shutdown error", "error", err)
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		if agent.IsFatalError(err) {
			appLog.Error("agent failed fatally, exiting", "error", err)
		} else {
			appLog.Error("agent failed unexpectedly", "error", err)
		}
	}

	appLog.Info("agent stopped gracefully.")
}
