package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"hotel_browser/internal/domain"
	"hotel_browser/internal/storage/memory"
)

// ---- fakes ----

// fakeCache stores JSON like the Redis cache and counts calls.
type fakeCache struct {
	mu         sync.Mutex
	m          map[string][]byte
	hits, sets int
	dels       []string
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.m[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	return ok
}

// countingRepo records how often the hotel read paths reach storage.
type countingRepo struct {
	*memory.Store
	mu           sync.Mutex
	gets, slices int
}

func (r *countingRepo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	r.mu.Lock()
	r.gets++
	r.mu.Unlock()
	return r.Store.GetHotel(ctx, id)
}

func (r *countingRepo) ReviewsSlice(ctx context.Context, id int64, limit, offset int) (domain.ReviewSlice, error) {
	r.mu.Lock()
	r.slices++
	r.mu.Unlock()
	return r.Store.ReviewsSlice(ctx, id, limit, offset)
}

func seeded(t interface{ Fatalf(string, ...any) }) *memory.Store {
	s := memory.New()
	ctx := context.Background()
	r := 4.5
	if err := s.UpsertHotels(ctx, []domain.Hotel{
		{ID: 1, Name: "Harbor Inn", Address: "1 Pier St, Boston, MA", Lat: 42.35, Lng: -71.05, Rating: &r, Link: "expedia.com/x.h1"},
		{ID: 2, Name: "Harbor View Hotel", Address: "2 Bay Rd, Boston, MA"},
		{ID: 3, Name: "Mountain Lodge", Address: "3 Peak Ave, Denver, CO"},
	}); err != nil {
		t.Fatalf("seed hotels: %v", err)
	}
	return s
}
