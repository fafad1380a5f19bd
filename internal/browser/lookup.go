package browser

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/domain"
)

// LookupController resolves hotels by id or name fragment and renders them.
type LookupController struct {
	remote domain.RemoteDataClient
	ui     domain.PresentationSurface
	sink   domain.CoordinateSink
}

// NewLookupController wires a lookup controller; sink may be nil.
func NewLookupController(r domain.RemoteDataClient, ui domain.PresentationSurface, sink domain.CoordinateSink) *LookupController {
	return &LookupController{remote: r, ui: ui, sink: sink}
}

// LookupCurrent looks up the hotel whose id is in the hotel id field.
func (c *LookupController) LookupCurrent(ctx context.Context) (domain.HotelDetail, bool, error) {
	id, err := c.ui.Value(ctx, domain.FieldHotelID)
	if err != nil {
		return domain.HotelDetail{}, false, err
	}
	return c.LookupByID(ctx, id)
}

// LookupByID renders the detail panel for id. The id is forwarded as typed;
// the service decides whether it is valid. On success the coordinates are
// staged into the lat/lng fields and handed to the sink, if any.
func (c *LookupController) LookupByID(ctx context.Context, id string) (domain.HotelDetail, bool, error) {
	q := url.Values{"by": {"id"}, "query": {id}}
	resp, err := c.remote.Fetch(ctx, domain.PathHotelData, q)

	var hotels []map[string]any
	if err == nil {
		if msg, bad := errorText(resp, "Error"); bad {
			err = fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
		} else if hotels = objects(resp["hotels"]); len(hotels) == 0 {
			err = domain.ErrNotFound
		}
	}
	if err != nil {
		log.Warn().Err(err).Str("path", domain.PathHotelData).Str("id", id).Msg("hotel lookup failed")
		observability.ObserveAction("lookup_id", "failed")
		html, rerr := render("noHotel", id)
		if rerr != nil {
			return domain.HotelDetail{}, false, rerr
		}
		return domain.HotelDetail{}, false, c.ui.Replace(ctx, domain.RegionHotelPanel, html)
	}

	h := mapDetail(hotels[0])
	html, err := render("hotelDetail", h)
	if err != nil {
		return domain.HotelDetail{}, false, err
	}
	if err := c.ui.SetValue(ctx, domain.FieldLat, formatCoord(h.Coords.Lat)); err != nil {
		return domain.HotelDetail{}, false, err
	}
	if err := c.ui.SetValue(ctx, domain.FieldLng, formatCoord(h.Coords.Lng)); err != nil {
		return domain.HotelDetail{}, false, err
	}
	if err := c.ui.Replace(ctx, domain.RegionHotelPanel, html); err != nil {
		return domain.HotelDetail{}, false, err
	}
	observability.ObserveAction("lookup_id", "ok")

	if c.sink != nil {
		if err := c.sink.StageCoordinates(ctx, h.HotelID, h.Coords); err != nil {
			return h, true, fmt.Errorf("stage coordinates for %d: %w", h.HotelID, err)
		}
	}
	return h, true, nil
}

// LookupCurrentName searches with the fragment in the hotel name field.
func (c *LookupController) LookupCurrentName(ctx context.Context) ([]domain.HotelSummary, error) {
	frag, err := c.ui.Value(ctx, domain.FieldHotelName)
	if err != nil {
		return nil, err
	}
	return c.LookupByName(ctx, frag)
}

// LookupByName renders every hotel matching fragment, each with its own
// favorite toggle keyed by hotel id.
func (c *LookupController) LookupByName(ctx context.Context, fragment string) ([]domain.HotelSummary, error) {
	q := url.Values{"by": {"name"}, "query": {fragment}}
	resp, err := c.remote.Fetch(ctx, domain.PathHotelData, q)
	if err == nil {
		if msg, bad := errorText(resp, "Error"); bad {
			err = fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
		}
	}

	if err != nil {
		log.Warn().Err(err).Str("path", domain.PathHotelData).Str("fragment", fragment).Msg("hotel search failed")
		observability.ObserveAction("lookup_name", "failed")
		title, rerr := render("hotelsTitle", titleData{Fragment: fragment})
		if rerr != nil {
			return nil, rerr
		}
		if err := c.ui.Replace(ctx, domain.RegionHotelsTitle, title); err != nil {
			return nil, err
		}
		return nil, c.ui.Replace(ctx, domain.RegionHotels, "")
	}

	raw := objects(resp["hotels"])
	out := make([]domain.HotelSummary, 0, len(raw))
	for _, m := range raw {
		out = append(out, mapSummary(m))
	}

	title, err := render("hotelsTitle", titleData{Fragment: fragment, Found: true})
	if err != nil {
		return nil, err
	}
	rows, err := render("hotelRows", out)
	if err != nil {
		return nil, err
	}
	if err := c.ui.Replace(ctx, domain.RegionHotelsTitle, title); err != nil {
		return nil, err
	}
	if err := c.ui.Replace(ctx, domain.RegionHotels, rows); err != nil {
		return nil, err
	}
	observability.ObserveAction("lookup_name", "ok")
	return out, nil
}

type titleData struct {
	Fragment string
	Found    bool
}

func formatCoord(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
