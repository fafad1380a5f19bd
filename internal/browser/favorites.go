package browser

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/domain"
)

// FavoriteToggleController flips a hotel's favorite state on the server and
// restyles its toggle from the value the server returns. It never predicts
// the new state locally.
type FavoriteToggleController struct {
	remote domain.RemoteDataClient
	ui     domain.SessionSurface
}

func NewFavoriteToggleController(r domain.RemoteDataClient, ui domain.SessionSurface) *FavoriteToggleController {
	return &FavoriteToggleController{remote: r, ui: ui}
}

// Toggle sends a click for hotelID. Each click takes a session token for the
// hotel; a reply is shown only if no newer click's reply has been shown
// already. Failed or rejected clicks leave the displayed state untouched.
func (c *FavoriteToggleController) Toggle(ctx context.Context, hotelID int64) error {
	id := strconv.FormatInt(hotelID, 10)
	key := "fav:" + id
	token, err := c.ui.Issue(ctx, key)
	if err != nil {
		return err
	}

	resp, err := c.remote.Fetch(ctx, domain.PathFavsData, url.Values{"act": {"click"}, "id": {id}})
	if err != nil {
		log.Warn().Err(err).Str("path", domain.PathFavsData).Int64("hotel_id", hotelID).Msg("favorite toggle failed")
		observability.ObserveAction("toggle", "failed")
		return nil
	}
	if msg, bad := errorText(resp, "Error"); bad {
		log.Warn().Int64("hotel_id", hotelID).Str("error", msg).Msg("favorite toggle rejected")
		observability.ObserveAction("toggle", "rejected")
		return nil
	}

	// apply-then-style must not interleave with another reply for this hotel
	unlock, err := c.ui.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	fresh, err := c.ui.Apply(ctx, key, token)
	if err != nil {
		return err
	}
	if !fresh {
		log.Debug().Int64("hotel_id", hotelID).Uint64("token", token).Msg("stale favorite toggle response dropped")
		observability.ObserveAction("toggle", "stale")
		return nil
	}
	if err := c.ui.SetClass(ctx, id, FavoriteClass(resp["fav"])); err != nil {
		return err
	}
	observability.ObserveAction("toggle", "ok")
	return nil
}

// FavoriteListController lists and bulk-clears the current user's favorites.
type FavoriteListController struct {
	remote domain.RemoteDataClient
	ui     domain.PresentationSurface
}

func NewFavoriteListController(r domain.RemoteDataClient, ui domain.PresentationSurface) *FavoriteListController {
	return &FavoriteListController{remote: r, ui: ui}
}

// List renders one row per favorited hotel name. The clear control is
// enabled only when there is something to clear.
func (c *FavoriteListController) List(ctx context.Context) ([]string, error) {
	resp, err := c.remote.Fetch(ctx, domain.PathFavsData, url.Values{"act": {"get"}})
	msg := "Unable to load favorite hotels"
	if err == nil {
		var bad bool
		if msg, bad = errorText(resp, "Error"); !bad {
			names := stringList(resp["fav_hotels"])
			rows, rerr := render("nameRows", names)
			if rerr != nil {
				return nil, rerr
			}
			if err := c.ui.Replace(ctx, domain.RegionFavHotels, rows); err != nil {
				return nil, err
			}
			observability.ObserveAction("fav_list", "ok")
			return names, c.ui.SetEnabled(ctx, domain.ControlClearFavs, len(names) > 0)
		}
	}

	log.Warn().Err(err).Str("path", domain.PathFavsData).Str("error", msg).Msg("favorite list failed")
	observability.ObserveAction("fav_list", "failed")
	row, rerr := render("mutedRow", msg)
	if rerr != nil {
		return nil, rerr
	}
	if err := c.ui.Replace(ctx, domain.RegionFavHotels, row); err != nil {
		return nil, err
	}
	return nil, c.ui.SetEnabled(ctx, domain.ControlClearFavs, false)
}

// ClearAll asks the service to clear every favorite, then empties the list
// without looking at the reply.
func (c *FavoriteListController) ClearAll(ctx context.Context) error {
	if _, err := c.remote.Fetch(ctx, domain.PathFavsData, url.Values{"act": {"clear"}}); err != nil {
		log.Warn().Err(err).Str("path", domain.PathFavsData).Msg("favorite clear request failed")
	}
	observability.ObserveAction("fav_clear", "sent")
	if err := c.ui.Replace(ctx, domain.RegionFavHotels, ""); err != nil {
		return err
	}
	return c.ui.SetEnabled(ctx, domain.ControlClearFavs, false)
}
