package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_browser/internal/domain"
)

// reviewPagesToEvict is how many cached review pages per hotel an ingest drops;
// deeper pages age out with the cache TTL.
const reviewPagesToEvict = 20

// IngestionService loads hotel and review files into the repository.
type IngestionService struct {
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewIngestionService(r domain.HotelRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{repo: r, cache: cache}
}

// IngestHotels reads a {"sr":[...]} document and upserts every hotel in it.
func (s *IngestionService) IngestHotels(ctx context.Context, r io.Reader) ([]domain.Hotel, error) {
	var doc struct {
		SR []map[string]any `json:"sr"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode hotels: %w", err)
	}

	hs := make([]domain.Hotel, 0, len(doc.SR))
	for i, m := range doc.SR {
		h, ok := mapHotel(m)
		if !ok {
			log.Warn().Int("index", i).Msg("skipping hotel without id")
			continue
		}
		hs = append(hs, h)
	}
	if err := s.repo.UpsertHotels(ctx, hs); err != nil {
		return nil, fmt.Errorf("upsert hotels: %w", err)
	}
	for _, h := range hs {
		s.invalidateHotel(ctx, h.ID)
	}
	return hs, nil
}

// IngestReviews reads one review file and upserts its reviews.
func (s *IngestionService) IngestReviews(ctx context.Context, r io.Reader) (int, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode reviews: %w", err)
	}
	raw, _ := at(doc, "reviewDetails.reviewCollection.review").([]any)

	rs := make([]domain.Review, 0, len(raw))
	touched := map[int64]struct{}{}
	for _, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		rv, ok := mapReview(m)
		if !ok {
			continue
		}
		rs = append(rs, rv)
		touched[rv.HotelID] = struct{}{}
	}
	if err := s.repo.UpsertReviews(ctx, rs); err != nil {
		return 0, fmt.Errorf("upsert reviews: %w", err)
	}
	for id := range touched {
		s.invalidateReviews(ctx, id)
	}
	return len(rs), nil
}

// Finalize recomputes hotel ratings from their reviews.
func (s *IngestionService) Finalize(ctx context.Context, hotels []domain.Hotel) error {
	if err := s.repo.RefreshRatings(ctx); err != nil {
		return fmt.Errorf("refresh ratings: %w", err)
	}
	for _, h := range hotels {
		s.invalidateHotel(ctx, h.ID)
	}
	return nil
}

func (s *IngestionService) invalidateHotel(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
}

func (s *IngestionService) invalidateReviews(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	for page := 0; page < reviewPagesToEvict; page++ {
		_ = s.cache.Del(ctx, reviewsKey(id, page*domain.PageSize))
	}
}

// Run loads hotelsFile, then every .json file under reviewsDir with at most
// workers files in flight, then refreshes ratings. Unreadable review files are
// logged and skipped; the returned count covers the files that loaded.
func (s *IngestionService) Run(ctx context.Context, hotelsFile, reviewsDir string, workers int) (hotels, reviews int, err error) {
	f, err := os.Open(hotelsFile)
	if err != nil {
		return 0, 0, fmt.Errorf("open hotels file: %w", err)
	}
	hs, err := s.IngestHotels(ctx, f)
	_ = f.Close()
	if err != nil {
		return 0, 0, err
	}
	log.Info().Int("hotels", len(hs)).Msg("hotels loaded")

	files, err := reviewFiles(reviewsDir)
	if err != nil {
		return len(hs), 0, fmt.Errorf("list review files in %s: %w", reviewsDir, err)
	}
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var loaded atomic.Int64

	for _, path := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return len(hs), int(loaded.Load()), err
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			rf, err := os.Open(path)
			if err != nil {
				log.Warn().Str("file", path).Err(err).Msg("open failed")
				return
			}
			defer rf.Close()
			n, err := s.IngestReviews(ctx, rf)
			if err != nil {
				log.Warn().Str("file", path).Err(err).Msg("review ingest failed")
				return
			}
			loaded.Add(int64(n))
			log.Debug().Str("file", path).Int("reviews", n).Msg("review file ok")
		}(path)
	}
	wg.Wait()

	// ratings are averages of what was just loaded
	if err := s.Finalize(ctx, hs); err != nil {
		return len(hs), int(loaded.Load()), err
	}
	return len(hs), int(loaded.Load()), nil
}

// reviewFiles lists every .json file under dir, sorted. A missing dir has none.
func reviewFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".json" {
			out = append(out, p)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}
