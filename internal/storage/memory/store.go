// Package memory is an in-process hotel store with the same ordering rules
// as the MySQL repository. The API uses it when STORAGE=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hotel_browser/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	hotels  map[int64]domain.Hotel
	reviews map[string]domain.Review
	favs    map[string]map[int64]bool
	clicks  map[string]map[string]int
}

func New() *Store {
	return &Store{
		hotels:  map[int64]domain.Hotel{},
		reviews: map[string]domain.Review{},
		favs:    map[string]map[int64]bool{},
		clicks:  map[string]map[string]int{},
	}
}

var (
	_ domain.HotelRepository       = (*Store)(nil)
	_ domain.FavoritesRepository   = (*Store)(nil)
	_ domain.LinkHistoryRepository = (*Store)(nil)
)

func (s *Store) UpsertHotels(_ context.Context, hs []domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range hs {
		if old, ok := s.hotels[h.ID]; ok && h.Rating == nil {
			h.Rating = old.Rating
		}
		s.hotels[h.ID] = h
	}
	return nil
}

func (s *Store) UpsertReviews(_ context.Context, rs []domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.reviews[r.ReviewID] = r
	}
	return nil
}

// RefreshRatings sets each hotel's rating to its review average, nil without reviews.
func (s *Store) RefreshRatings(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := map[int64]int{}
	n := map[int64]int{}
	for _, r := range s.reviews {
		sum[r.HotelID] += r.Rating
		n[r.HotelID]++
	}
	for id, h := range s.hotels {
		h.Rating = nil
		if n[id] > 0 {
			avg := float64(sum[id]) / float64(n[id])
			h.Rating = &avg
		}
		s.hotels[id] = h
	}
	return nil
}

func (s *Store) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

// SearchHotels matches case-insensitively, ordered by id.
func (s *Store) SearchHotels(_ context.Context, fragment string) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frag := strings.ToLower(strings.TrimSpace(fragment))
	var out []domain.Hotel
	for _, h := range s.hotels {
		if frag == "" || strings.Contains(strings.ToLower(h.Name), frag) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ReviewsSlice pages newest first, ties broken by review id.
func (s *Store) ReviewsSlice(_ context.Context, hotelID int64, limit, offset int) (domain.ReviewSlice, error) {
	s.mu.RLock()
	var all []domain.Review
	for _, r := range s.reviews {
		if r.HotelID == hotelID {
			all = append(all, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].DatePosted != all[j].DatePosted {
			return all[i].DatePosted > all[j].DatePosted
		}
		return all[i].ReviewID < all[j].ReviewID
	})
	out := domain.ReviewSlice{Reviews: []domain.Review{}, Len: len(all)}
	if offset < 0 {
		offset = 0
	}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		out.Reviews = append(out.Reviews, all[offset:end]...)
	}
	return out, nil
}

func (s *Store) FavoriteIDs(_ context.Context, username string) (map[int64]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[int64]bool{}
	for id := range s.favs[username] {
		out[id] = true
	}
	return out, nil
}

// FavoriteNames lists the user's favorite hotel names alphabetically.
func (s *Store) FavoriteNames(_ context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []string{}
	for id := range s.favs[username] {
		if h, ok := s.hotels[id]; ok {
			out = append(out, h.Name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) ToggleFavorite(_ context.Context, username string, hotelID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.favs[username]
	if set == nil {
		set = map[int64]bool{}
		s.favs[username] = set
	}
	if set[hotelID] {
		delete(set, hotelID)
		return false, nil
	}
	set[hotelID] = true
	return true, nil
}

func (s *Store) ClearFavorites(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favs, username)
	return nil
}

func (s *Store) KnownLink(_ context.Context, link string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hotels {
		if link != "" && h.Link == link {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) RecordClick(_ context.Context, username, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.clicks[username]
	if m == nil {
		m = map[string]int{}
		s.clicks[username] = m
	}
	m[link]++
	return nil
}

func (s *Store) LinkHistory(_ context.Context, username string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]int{}
	for k, v := range s.clicks[username] {
		out[k] = v
	}
	return out, nil
}

func (s *Store) ClearLinkHistory(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clicks, username)
	return nil
}
