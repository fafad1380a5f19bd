package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_browser/internal/domain"
)

// QueryService answers the browser's hotel, review and favorites requests.
type QueryService struct {
	hotels   domain.HotelRepository
	favs     domain.FavoritesRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the service; c may be nil to disable caching.
func NewQueryService(h domain.HotelRepository, f domain.FavoritesRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{hotels: h, favs: f, cache: c, cacheTTL: ttl}
}

func hotelKey(id int64) string               { return fmt.Sprintf("hotel:%d", id) }
func reviewsKey(id int64, offset int) string { return fmt.Sprintf("reviews:%d:%d", id, offset) }

// hotel reads the shared (user independent) hotel row through the cache.
func (s *QueryService) hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return h, nil
}

// GetHotel returns hotel id with the fav flag of user.
func (s *QueryService) GetHotel(ctx context.Context, id int64, user string) (domain.HotelView, error) {
	h, err := s.hotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	favs, err := s.favs.FavoriteIDs(ctx, user)
	if err != nil {
		return domain.HotelView{}, err
	}
	return toView(h, favs[h.ID]), nil
}

// SearchHotels returns every hotel whose name contains fragment, or
// domain.ErrNotFound when none does.
func (s *QueryService) SearchHotels(ctx context.Context, fragment, user string) ([]domain.HotelView, error) {
	hs, err := s.hotels.SearchHotels(ctx, fragment)
	if err != nil {
		return nil, err
	}
	if len(hs) == 0 {
		return nil, domain.ErrNotFound
	}
	favs, err := s.favs.FavoriteIDs(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HotelView, 0, len(hs))
	for _, h := range hs {
		out = append(out, toView(h, favs[h.ID]))
	}
	return out, nil
}

// ReviewsSlice returns the page of hotel id's reviews starting at offset.
func (s *QueryService) ReviewsSlice(ctx context.Context, id int64, offset int) (domain.ReviewSlice, error) {
	if offset < 0 {
		offset = 0
	}
	if _, err := s.hotel(ctx, id); err != nil {
		return domain.ReviewSlice{}, err
	}

	key := reviewsKey(id, offset)
	var out domain.ReviewSlice
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	out, err := s.hotels.ReviewsSlice(ctx, id, domain.PageSize, offset)
	if err != nil {
		return domain.ReviewSlice{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return out, nil
}

// ToggleFavorite flips user's favorite on hotel id and returns the new state.
func (s *QueryService) ToggleFavorite(ctx context.Context, user string, id int64) (bool, error) {
	if _, err := s.hotel(ctx, id); err != nil {
		return false, err
	}
	return s.favs.ToggleFavorite(ctx, user, id)
}

func (s *QueryService) FavoriteNames(ctx context.Context, user string) ([]string, error) {
	return s.favs.FavoriteNames(ctx, user)
}

// ClearFavorites drops every favorite of user and returns the (now empty) list.
func (s *QueryService) ClearFavorites(ctx context.Context, user string) ([]string, error) {
	if err := s.favs.ClearFavorites(ctx, user); err != nil {
		return nil, err
	}
	return s.favs.FavoriteNames(ctx, user)
}

func toView(h domain.Hotel, fav bool) domain.HotelView {
	v := domain.HotelView{
		HotelID:   h.ID,
		HotelName: h.Name,
		Address:   h.Address,
		Lat:       h.Lat,
		Lng:       h.Lng,
		Link:      h.Link,
		Fav:       fav,
	}
	if h.Rating != nil {
		v.Rating = *h.Rating
	}
	return v
}
