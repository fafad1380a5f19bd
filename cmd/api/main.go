package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	server "hotel_browser/internal/adapters/http_server"
	"hotel_browser/internal/adapters/observability"
	redisad "hotel_browser/internal/adapters/redis"
	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
	"hotel_browser/internal/shared"
	"hotel_browser/internal/storage/memory"
	mysqlrepo "hotel_browser/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stdout)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// storage
	var (
		hotels domain.HotelRepository
		favs   domain.FavoritesRepository
		links  domain.LinkHistoryRepository
		cache  domain.Cache
		db     *sql.DB
		rdb    *redis.Client
	)
	switch cfg.Storage {
	case "memory":
		// no cache in front of an in-process store
		store := memory.New()
		hotels, favs, links = store, store, store
		nh, nr, err := app.NewIngestionService(store, nil).Run(context.Background(), cfg.HotelsFile, cfg.ReviewsDir, cfg.Workers)
		if err != nil {
			log.Fatal().Err(err).Msg("seeding in-memory storage failed")
		}
		log.Warn().Int("hotels", nh).Int("reviews", nr).Msg("using in-memory storage; data is lost on exit")
	default:
		var err error
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		hotels, favs, links = repo, repo, repo
		rdb = redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		cache = redisad.NewCache(rdb)
	}
	q := app.NewQueryService(hotels, favs, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(&server.Handlers{Q: q, L: app.NewLinkService(links)})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	log.Info().Msg("API stopped")
}
