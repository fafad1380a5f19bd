package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/backend"
	"hotel_browser/internal/adapters/observability"
	redisad "hotel_browser/internal/adapters/redis"
	"hotel_browser/internal/browser"
	"hotel_browser/internal/domain"
	"hotel_browser/internal/shared"
)

const usage = `usage: browser <action> [arg]

actions:
  hotel [id]        look up a hotel by id (default: the session's hotel id field)
  search [name]     look up hotels by name fragment (default: the session's name field)
  coords [id]       print the coordinates staged by the last lookup of a hotel
  fav <id>          toggle a hotel's favorite state
  reviews <id>      show the first page of a hotel's reviews
  next | prev       page through the current hotel's reviews
  favs              list favorite hotels
  clear             clear all favorite hotels
  show              print the session without acting
  forget            drop the session`

func main() {
	cfg := shared.Load()

	// stdout carries the session snapshot
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stderr)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	action, arg := os.Args[1], ""
	if len(os.Args) > 2 {
		arg = os.Args[2]
	}

	session := cfg.Session
	if session == "" {
		session = uuid.NewString()
		fmt.Fprintf(os.Stderr, "new session %s (export BROWSER_SESSION to reuse it)\n", session)
	}

	client, err := backend.New(cfg.BackendURL, cfg.User, cfg.BackendRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}
	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ui := redisad.NewSurface(rdb, session, cfg.SessionTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	// os.Exit skips deferred calls, so every exit path releases explicitly.
	exit := func(code int) {
		cancel()
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis failed")
		}
		os.Exit(code)
	}

	out, err := run(ctx, action, arg, client, ui, redisad.NewCoordinateStore(rdb))
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("action failed")
		exit(1)
	}
	if out == nil {
		if out, err = ui.Snapshot(ctx); err != nil {
			log.Error().Err(err).Msg("reading session failed")
			exit(1)
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	exit(0)
}

// run performs one action against the session. A nil result means the
// session snapshot is printed.
func run(ctx context.Context, action, arg string, client *backend.Client, ui *redisad.Surface, coords *redisad.CoordinateStore) (any, error) {
	needArg := func() error {
		if arg == "" {
			return fmt.Errorf("%s needs an argument\n%s", action, usage)
		}
		return nil
	}
	// A given argument is typed into field first, so the lookup reads what the form holds.
	fill := func(field string) error {
		if arg == "" {
			return nil
		}
		return ui.SetValue(ctx, field, arg)
	}

	switch action {
	case "hotel":
		if err := fill(domain.FieldHotelID); err != nil {
			return nil, err
		}
		_, _, err := browser.NewLookupController(client, ui, coords).LookupCurrent(ctx)
		return nil, err
	case "search":
		if err := fill(domain.FieldHotelName); err != nil {
			return nil, err
		}
		_, err := browser.NewLookupController(client, ui, coords).LookupCurrentName(ctx)
		return nil, err
	case "coords":
		raw := arg
		if raw == "" {
			v, err := ui.Value(ctx, domain.FieldHotelID)
			if err != nil {
				return nil, err
			}
			raw = v
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hotel id %q: %w", raw, err)
		}
		c, err := coords.Coordinates(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("coordinates of hotel %d: %w", id, err)
		}
		return map[string]any{"hotelid": id, "lat": c.Lat, "lng": c.Lng}, nil
	case "fav":
		if err := needArg(); err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hotel id %q: %w", arg, err)
		}
		return nil, browser.NewFavoriteToggleController(client, ui).Toggle(ctx, id)
	case "reviews":
		if err := needArg(); err != nil {
			return nil, err
		}
		p := browser.NewReviewPager(client, ui)
		if err := p.Reset(ctx, arg); err != nil {
			return nil, err
		}
		return nil, p.Advance(ctx)
	case "next":
		return nil, browser.NewReviewPager(client, ui).Advance(ctx)
	case "prev":
		return nil, browser.NewReviewPager(client, ui).Retreat(ctx)
	case "favs":
		_, err := browser.NewFavoriteListController(client, ui).List(ctx)
		return nil, err
	case "clear":
		return nil, browser.NewFavoriteListController(client, ui).ClearAll(ctx)
	case "show":
		return nil, nil
	case "forget":
		return nil, ui.Reset(ctx)
	default:
		return nil, fmt.Errorf("unknown action %q\n%s", action, usage)
	}
}
