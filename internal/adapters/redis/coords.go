package redisad

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"hotel_browser/internal/domain"
)

// CoordinateStore hands coordinates resolved by a lookup to whichever flow
// needs them later, keyed by hotel id instead of by shared surface field.
type CoordinateStore struct{ c *redis.Client }

func NewCoordinateStore(c *redis.Client) *CoordinateStore { return &CoordinateStore{c: c} }

var _ domain.CoordinateSink = (*CoordinateStore)(nil)

func coordsKey(hotelID int64) string { return fmt.Sprintf("coords:%d", hotelID) }

func (s *CoordinateStore) StageCoordinates(ctx context.Context, hotelID int64, c domain.Coords) error {
	return s.c.HSet(ctx, coordsKey(hotelID),
		"lat", strconv.FormatFloat(c.Lat, 'f', -1, 64),
		"lng", strconv.FormatFloat(c.Lng, 'f', -1, 64),
	).Err()
}

// Coordinates returns what was staged for hotelID, or domain.ErrNotFound.
func (s *CoordinateStore) Coordinates(ctx context.Context, hotelID int64) (domain.Coords, error) {
	vals, err := s.c.HMGet(ctx, coordsKey(hotelID), "lat", "lng").Result()
	if err != nil {
		return domain.Coords{}, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return domain.Coords{}, domain.ErrNotFound
	}
	var out domain.Coords
	if out.Lat, err = strconv.ParseFloat(fmt.Sprint(vals[0]), 64); err != nil {
		return domain.Coords{}, err
	}
	if out.Lng, err = strconv.ParseFloat(fmt.Sprint(vals[1]), 64); err != nil {
		return domain.Coords{}, err
	}
	return out, nil
}
