package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/homescout/recommendation_service/internal/api"
	"github.com/homescout/recommendation_service/internal/oracle"
	"github.com/homescout/recommendation_service/internal/scoring"
	"github.com/homescout/recommendation_service/internal/service"
	"github.com/homescout/recommendation_service/internal/store"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func main() {
	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "homescout_db")
	dbUser := envOrDefault("DB_USER", "homescout_user")
	dbPass := envOrDefault("DB_PASS", "homescout")
	redisAddr := envOrDefault("REDIS_ADDR", "localhost:6379")
	scoringConfigPath := os.Getenv("SCORING_CONFIG")
	port := envOrDefault("PORT", "8080")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	pgURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", pgURL)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		logger.Warn("waiting for db", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Fatal("could not connect to db", zap.Error(err))
	}

	if err := store.RunMigrations(db); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed, price cache disabled", zap.Error(err))
		rdb = nil
	}

	cfg := scoring.DefaultConfig()
	if scoringConfigPath != "" {
		cfg, err = scoring.Load(scoringConfigPath)
		if err != nil {
			logger.Fatal("scoring config", zap.Error(err))
		}
	}

	repo := store.NewPgStore(db)

	// nil when ORACLE_URL is unset; scoring then uses listing prices.
	var orc scoring.Oracle
	if c := oracle.NewClientFromEnv(logger); c != nil {
		orc = c
	}

	svc, err := service.NewService(repo, repo, cfg, orc, rdb, logger)
	if err != nil {
		logger.Fatal("service init", zap.Error(err))
	}

	handler := api.NewHandler(svc)

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	logger.Info("listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
