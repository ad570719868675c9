package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"petsy/internal/catalog"
	"petsy/internal/checkout"
	"petsy/internal/config"
	"petsy/internal/events"
	"petsy/internal/identity"
	"petsy/internal/infrastructure/logger"
	"petsy/internal/infrastructure/mysql"
	redisconn "petsy/internal/infrastructure/redis"
	"petsy/internal/server"
	"petsy/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	var sessions session.Store
	redisClient, err := redisconn.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, using in-memory session store", zap.Error(err))
		sessions = session.NewMemoryStore()
	} else {
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient, cfg.Checkout.SessionTTL)
		zapLogger.Info("redis connected")
	}

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
	provider := identity.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	stockRepo := checkout.NewStockRepository(db)
	cat, catalogCtrl := catalog.NewModule(db, stockRepo, zapLogger)
	checkoutCtrl := checkout.NewModule(db, cfg, cat, sessions, publisher, zapLogger)

	router := server.NewRouter(checkoutCtrl, catalogCtrl, provider, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
