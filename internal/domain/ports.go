package domain

import (
	"context"
	"net/url"
)

// Response is a decoded JSON object returned by the remote data service.
type Response map[string]any

// RemoteDataClient performs one request against a path + query.
type RemoteDataClient interface {
	Fetch(ctx context.Context, path string, query url.Values) (Response, error)
}

// PresentationSurface is the rendering target of the browser controllers.
// Its fields double as the only state carried between controller calls.
type PresentationSurface interface {
	Value(ctx context.Context, field string) (string, error)
	SetValue(ctx context.Context, field, value string) error
	Replace(ctx context.Context, region, html string) error
	SetEnabled(ctx context.Context, control string, enabled bool) error
	SetClass(ctx context.Context, element, class string) error
}

// SessionLocker serializes work on one named piece of session state across
// every controller sharing the session, in this process or another.
type SessionLocker interface {
	// Lock blocks until name is held or ctx is done.
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// SessionSequencer orders requests per key for everyone sharing the session.
type SessionSequencer interface {
	// Issue returns a token larger than every token issued before for key.
	Issue(ctx context.Context, key string) (uint64, error)
	// Apply records token for key and reports whether it is newer than
	// every token applied before; older tokens are left unrecorded.
	Apply(ctx context.Context, key string, token uint64) (bool, error)
}

// SessionSurface is a presentation surface that also coordinates the
// controllers sharing it.
type SessionSurface interface {
	PresentationSurface
	SessionLocker
	SessionSequencer
}

// CoordinateSink receives coordinates resolved by a hotel lookup.
type CoordinateSink interface {
	StageCoordinates(ctx context.Context, hotelID int64, c Coords) error
}

type HotelRepository interface {
	// Write paths
	UpsertHotels(ctx context.Context, hs []Hotel) error
	UpsertReviews(ctx context.Context, rs []Review) error
	RefreshRatings(ctx context.Context) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	SearchHotels(ctx context.Context, fragment string) ([]Hotel, error)
	ReviewsSlice(ctx context.Context, hotelID int64, limit, offset int) (ReviewSlice, error)
}

type FavoritesRepository interface {
	FavoriteIDs(ctx context.Context, username string) (map[int64]bool, error)
	FavoriteNames(ctx context.Context, username string) ([]string, error)
	ToggleFavorite(ctx context.Context, username string, hotelID int64) (bool, error)
	ClearFavorites(ctx context.Context, username string) error
}

// LinkHistoryRepository counts outbound link clicks per user.
type LinkHistoryRepository interface {
	KnownLink(ctx context.Context, link string) (bool, error)
	RecordClick(ctx context.Context, username, link string) error
	LinkHistory(ctx context.Context, username string) (map[string]int, error)
	ClearLinkHistory(ctx context.Context, username string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
