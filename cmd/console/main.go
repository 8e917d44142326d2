package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"inventory-console/internal/api"
	"inventory-console/internal/config"
	apphttp "inventory-console/internal/http"
	"inventory-console/internal/repository"
	"inventory-console/internal/repository/redis"
	"inventory-console/internal/repository/sqlite"
	"inventory-console/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	policy, err := service.ParseOfflinePolicy(cfg.Session.OfflinePolicy)
	if err != nil {
		logger.Fatalf("session config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatalf("open credential store: %v", err)
	}
	defer closeStore()

	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init credential store: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	gate := service.NewSessionGate(store, client, service.GateConfig{
		OfflinePolicy: policy,
		Logger:        logger,
	})
	users := service.NewUserService(client, gate, logger)

	session, err := gate.Start(ctx)
	if err != nil {
		logger.Warnf("start session: %v", err)
	}
	if session.Authenticated() {
		if session, err = gate.Validate(ctx); err != nil {
			logger.Warnf("validate session: %v", err)
		}
	}
	logger.Infof("session %s", session.State())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(gate, users, logger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("console listening on http://%s (api %s)", cfg.Server.Addr, cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStore(cfg config.Config, logger *logrus.Logger) (repository.CredentialStore, func(), error) {
	switch cfg.Store.Driver {
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Infof("using redis credential store at %s", cfg.Redis.Addr)
		return redis.NewCredentialStore(rdb, cfg.Redis.KeyPrefix), func() { _ = rdb.Close() }, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using sqlite credential store at %s", cfg.Store.Path)
		return sqlite.NewCredentialStore(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
