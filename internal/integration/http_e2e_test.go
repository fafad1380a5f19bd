//go:build integration || !unit

package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"hotel_browser/internal/adapters/backend"
	server "hotel_browser/internal/adapters/http_server"
	redisad "hotel_browser/internal/adapters/redis"
	"hotel_browser/internal/app"
	"hotel_browser/internal/browser"
	"hotel_browser/internal/domain"
	"hotel_browser/internal/storage/memory"
)

// ---------- helpers ----------

type stack struct {
	ts     *httptest.Server
	client *backend.Client
	rdb    *miniredis.Miniredis
}

// newStack serves the real handlers over a seeded in-memory store, with the
// Redis cache in front, and returns a backend client logged in as user.
func newStack(t *testing.T, user string, reviews int) *stack {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	if err := store.UpsertHotels(ctx, []domain.Hotel{
		{ID: 10, Name: "Harbor Inn", Address: "1 Pier St, Boston, MA", Lat: 42.35, Lng: -71.05, Link: "expedia.com/Boston-Hotels-Harbor-Inn.h10.Hotel-Information"},
		{ID: 11, Name: "Harbor View", Address: "2 Bay Rd, Boston, MA", Lat: 42.36, Lng: -71.04},
		{ID: 12, Name: "Mountain Lodge", Address: "3 Peak Ave, Denver, CO"},
	}); err != nil {
		t.Fatalf("seed hotels: %v", err)
	}
	var rs []domain.Review
	for i := 0; i < reviews; i++ {
		rs = append(rs, domain.Review{
			ReviewID:   fmt.Sprintf("r%03d", i),
			HotelID:    10,
			Rating:     4,
			Username:   fmt.Sprintf("guest%d", i),
			Title:      fmt.Sprintf("title %d", i),
			DatePosted: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02"),
		})
	}
	if err := store.UpsertReviews(ctx, rs); err != nil {
		t.Fatalf("seed reviews: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.NewCache(redisad.NewClient(mr.Addr(), "", 0))

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(store, store, cache, time.Minute), L: app.NewLinkService(store)})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	client, err := backend.New(ts.URL, user, 1000)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return &stack{ts: ts, client: client, rdb: mr}
}

func (s *stack) surface(session string) *redisad.Surface {
	return redisad.NewSurface(redisad.NewClient(s.rdb.Addr(), "", 0), session, time.Hour)
}

// ---------- the tests ----------

func TestEndToEnd_LookupByIDStagesCoordinates(t *testing.T) {
	s := newStack(t, "ann", 0)
	ctx := context.Background()
	ui := s.surface("s1")
	coords := redisad.NewCoordinateStore(redisad.NewClient(s.rdb.Addr(), "", 0))
	lc := browser.NewLookupController(s.client, ui, coords)

	h, ok, err := lc.LookupByID(ctx, "10")
	if err != nil || !ok {
		t.Fatalf("LookupByID: ok=%v err=%v", ok, err)
	}
	if h.HotelName != "Harbor Inn" || h.Coords.Lat != 42.35 {
		t.Fatalf("unexpected detail %+v", h)
	}
	st, err := ui.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.Fields[domain.FieldLat] != "42.35" || st.Fields[domain.FieldLng] != "-71.05" {
		t.Fatalf("coordinates not staged: %v", st.Fields)
	}
	if !strings.Contains(st.Regions[domain.RegionHotelPanel], "Harbor Inn") {
		t.Fatalf("panel: %q", st.Regions[domain.RegionHotelPanel])
	}
	if c, err := coords.Coordinates(ctx, 10); err != nil || c.Lng != -71.05 {
		t.Fatalf("sink: %+v %v", c, err)
	}

	// unknown id renders the not-found text and leaves coordinates alone
	if _, ok, err := lc.LookupByID(ctx, "99"); ok || err != nil {
		t.Fatalf("unknown id: ok=%v err=%v", ok, err)
	}
	st, _ = ui.Snapshot(ctx)
	if st.Regions[domain.RegionHotelPanel] != "No hotel found with ID 99" || st.Fields[domain.FieldLat] != "42.35" {
		t.Fatalf("after miss: %v", st)
	}
}

func TestEndToEnd_SearchToggleAndList(t *testing.T) {
	s := newStack(t, "ann", 0)
	ctx := context.Background()
	ui := s.surface("s2")

	hs, err := browser.NewLookupController(s.client, ui, nil).LookupByName(ctx, "Harbor")
	if err != nil || len(hs) != 2 {
		t.Fatalf("LookupByName: %v %v", hs, err)
	}

	toggle := browser.NewFavoriteToggleController(s.client, ui)
	if err := toggle.Toggle(ctx, 11); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	st, _ := ui.Snapshot(ctx)
	if st.Classes["11"] != domain.ClassFavActive {
		t.Fatalf("toggle class %q", st.Classes["11"])
	}

	list := browser.NewFavoriteListController(s.client, ui)
	names, err := list.List(ctx)
	if err != nil || len(names) != 1 || names[0] != "Harbor View" {
		t.Fatalf("List: %v %v", names, err)
	}
	st, _ = ui.Snapshot(ctx)
	if !st.Enabled[domain.ControlClearFavs] {
		t.Fatalf("clear should be enabled with favorites")
	}

	if err := list.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	names, _ = list.List(ctx)
	if len(names) != 0 {
		t.Fatalf("favorites should be gone: %v", names)
	}

	// a second user does not see ann's favorites
	other := newStackClient(t, s, "bob")
	if err := browser.NewFavoriteToggleController(other, ui).Toggle(ctx, 10); err != nil {
		t.Fatalf("bob toggle: %v", err)
	}
	if names, _ := list.List(ctx); len(names) != 0 {
		t.Fatalf("ann sees bob's favorites: %v", names)
	}
}

func newStackClient(t *testing.T, s *stack, user string) *backend.Client {
	t.Helper()
	c, err := backend.New(s.ts.URL, user, 1000)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return c
}

// Each step builds a fresh pager over the same session, the way the CLI does.
func TestEndToEnd_ReviewPagingAcrossInvocations(t *testing.T) {
	s := newStack(t, "ann", 25)
	ctx := context.Background()
	const session = "s3"

	step := func(f func(*browser.ReviewPager) error) map[string]any {
		t.Helper()
		if err := f(browser.NewReviewPager(s.client, s.surface(session))); err != nil {
			t.Fatalf("pager step: %v", err)
		}
		st, err := s.surface(session).Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		return map[string]any{
			"offset": st.Fields[domain.FieldOffset],
			"prev":   st.Enabled[domain.ControlPrev],
			"next":   st.Enabled[domain.ControlNext],
			"rows":   strings.Count(st.Regions[domain.RegionReviews], "<tr>"),
		}
	}
	advance := func(p *browser.ReviewPager) error { return p.Advance(ctx) }
	retreat := func(p *browser.ReviewPager) error { return p.Retreat(ctx) }

	step(func(p *browser.ReviewPager) error { return p.Reset(ctx, "10") })

	want := []struct {
		f    func(*browser.ReviewPager) error
		off  string
		prev bool
		next bool
		rows int
	}{
		{advance, "10", false, true, 10},
		{advance, "20", true, true, 10},
		{advance, "30", true, false, 5},
		{retreat, "20", true, true, 10},
		{retreat, "10", false, true, 10},
	}
	for i, w := range want {
		got := step(w.f)
		if got["offset"] != w.off || got["prev"] != w.prev || got["next"] != w.next || got["rows"] != w.rows {
			t.Fatalf("step %d: got %v, want offset=%s prev=%v next=%v rows=%d", i, got, w.off, w.prev, w.next, w.rows)
		}
	}
}

func TestEndToEnd_NoReviews(t *testing.T) {
	s := newStack(t, "ann", 0)
	ctx := context.Background()
	ui := s.surface("s4")
	p := browser.NewReviewPager(s.client, ui)
	if err := p.Reset(ctx, "12"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := p.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	st, _ := ui.Snapshot(ctx)
	if st.Regions[domain.RegionReviews] != `<tr class="text-muted"><td>No reviews for hotel 12</td></tr>` {
		t.Fatalf("reviews region %q", st.Regions[domain.RegionReviews])
	}
	if st.Fields[domain.FieldOffset] != "0" {
		t.Fatalf("offset should not move, got %q", st.Fields[domain.FieldOffset])
	}
}
