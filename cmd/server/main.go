package main

import (
	"context"
	"flag"

	"github.com/coocood/freecache"
	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/api"
	"github.com/infigaming-com/notification-service/cache"
	"github.com/infigaming-com/notification-service/config"
	"github.com/infigaming-com/notification-service/delivery"
	"github.com/infigaming-com/notification-service/migrate"
	"github.com/infigaming-com/notification-service/notification"
	"github.com/infigaming-com/notification-service/observability/metrics"
	"github.com/infigaming-com/notification-service/registry"
	"github.com/infigaming-com/notification-service/store"
	"github.com/infigaming-com/notification-service/stream"
	"github.com/infigaming-com/notification-service/util"
	"github.com/infigaming-com/notification-service/web"
	"github.com/infigaming-com/notification-service/web/middleware"
)

const authCacheSize = 10 * 1024 * 1024

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	lg, cleanupLogger := util.NewLogger(zap.Fields(zap.String("service", "notification-service")))
	defer cleanupLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	if err := migrate.Migrate(cfg.Postgres.DSN, cfg.Postgres.MigrationsPath); err != nil {
		lg.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := store.OpenPostgres(cfg.Postgres.DSN)
	if err != nil {
		lg.Fatal("failed to connect to postgres", zap.Error(err))
	}
	st := store.New(db)

	redisClient, err := util.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.ConnectTimeout)
	if err != nil {
		lg.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	m := metrics.Noop()
	if cfg.Metrics.Enabled {
		opts := []metrics.Option{
			metrics.WithServiceName(cfg.App.Name),
			metrics.WithEnvironment(cfg.App.Environment),
		}
		if cfg.Metrics.Protocol == "grpc" {
			opts = append(opts, metrics.WithOTLPGRPCEndpoint(cfg.Metrics.Endpoint))
		} else {
			opts = append(opts, metrics.WithOTLPEndpoint(cfg.Metrics.Endpoint))
		}
		var cleanupMetrics func()
		m, cleanupMetrics, err = metrics.New(opts...)
		if err != nil {
			lg.Fatal("failed to init metrics", zap.Error(err))
		}
		defer cleanupMetrics()
	}

	log := stream.NewRedisLog(lg, redisClient, stream.RedisLogConfig{
		Environment:     cfg.App.Environment,
		AppName:         cfg.App.Name,
		StreamPrefix:    cfg.Websocket.StreamPrefix,
		GroupPrefix:     cfg.Websocket.GroupPrefix,
		MaxStreamLength: cfg.Websocket.MaxStreamLength,
		ReadBlock:       cfg.Websocket.ReadBlock,
		ReadCount:       cfg.Websocket.ReadCount,
	})

	reg := registry.New(lg)
	orchestrator := delivery.NewOrchestrator(
		lg, log, reg, api.NewClientValidator(st.Clients), m, cfg.Websocket.ErrorBackoff)
	svc := notification.NewService(lg, log, st, m)
	authCache := cache.NewFreeCache(freecache.NewCache(authCacheSize))

	handlers := api.New(lg, svc, orchestrator, st, authCache)

	web.StartServer(lg,
		web.WithMode(cfg.Server.Mode),
		web.WithPort(cfg.Server.Port),
		web.WithMiddleware(middleware.CorrelationIdMiddleware()),
		web.WithMiddleware(middleware.LoggingMiddleware(
			middleware.WithLogger(lg),
			middleware.WithDebugEnabled(cfg.Server.Mode == "debug"),
			middleware.WithExcludePaths([]string{"/api/ws"}),
		)),
		web.WithRoutes(handlers.RegisterRoutes),
	)
}
