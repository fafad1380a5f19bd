package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/observability"
	redisad "hotel_browser/internal/adapters/redis"
	"hotel_browser/internal/app"
	"hotel_browser/internal/shared"
	mysqlrepo "hotel_browser/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stdout)

	log.Info().
		Str("hotels", cfg.HotelsFile).
		Str("reviews", cfg.ReviewsDir).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rdb.Close()

	// 2) hotels, then review files fanned out over cfg.Workers, then ratings
	ing := app.NewIngestionService(repo, redisad.NewCache(rdb))
	hotels, reviews, err := ing.Run(ctx, cfg.HotelsFile, cfg.ReviewsDir, cfg.Workers)
	if err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}
	log.Info().Int("hotels", hotels).Int("reviews", reviews).Msg("ingestion completed")
}
