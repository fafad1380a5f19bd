package browser

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/domain"
)

type direction int

const (
	forward direction = iota
	backward
)

func (d direction) String() string {
	if d == backward {
		return "prev"
	}
	return "next"
}

func (d direction) delta() int {
	if d == backward {
		return -domain.PageSize
	}
	return domain.PageSize
}

// failureKey is the response key each direction inspects for a failure.
// The two differ in case; the service only ever sets "Error".
func failureKey(d direction) string {
	if d == backward {
		return "error"
	}
	return "Error"
}

type controlChange struct {
	control string
	enabled bool
}

// pageControls decides which paging controls change once the cursor has
// moved to offset. Only the changes are returned; untouched controls keep
// whatever state they had. Note the thresholds are not symmetric.
func pageControls(d direction, offset, total int) []controlChange {
	var out []controlChange
	switch d {
	case forward:
		if offset >= 2*domain.PageSize {
			out = append(out, controlChange{domain.ControlPrev, true})
		}
		if offset >= total {
			out = append(out, controlChange{domain.ControlNext, false})
		}
	case backward:
		if offset < total {
			out = append(out, controlChange{domain.ControlNext, true})
		}
		if offset <= domain.PageSize {
			out = append(out, controlChange{domain.ControlPrev, false})
		}
	}
	return out
}

// cursorLock names the session lock guarding the review cursor.
const cursorLock = "reviews"

// ReviewPager walks a hotel's reviews ten at a time. The cursor (hotel id and
// offset) lives in surface fields. Every pager over the same session takes the
// session's cursor lock, so a read-fetch-write of the offset is never interleaved.
type ReviewPager struct {
	remote domain.RemoteDataClient
	ui     domain.SessionSurface
}

func NewReviewPager(r domain.RemoteDataClient, ui domain.SessionSurface) *ReviewPager {
	return &ReviewPager{remote: r, ui: ui}
}

// Reset points the cursor at the start of hotelID's reviews. The first page
// is loaded by a following Advance.
func (p *ReviewPager) Reset(ctx context.Context, hotelID string) error {
	unlock, err := p.ui.Lock(ctx, cursorLock)
	if err != nil {
		return err
	}
	defer unlock()

	if err := p.ui.SetValue(ctx, domain.FieldHotelID, hotelID); err != nil {
		return err
	}
	if err := p.ui.SetValue(ctx, domain.FieldOffset, "0"); err != nil {
		return err
	}
	if err := p.ui.Replace(ctx, domain.RegionReviews, ""); err != nil {
		return err
	}
	if err := p.ui.SetEnabled(ctx, domain.ControlPrev, false); err != nil {
		return err
	}
	return p.ui.SetEnabled(ctx, domain.ControlNext, true)
}

// Advance loads the page at the current offset and moves the cursor forward.
func (p *ReviewPager) Advance(ctx context.Context) error { return p.step(ctx, forward) }

// Retreat moves the cursor back one page.
func (p *ReviewPager) Retreat(ctx context.Context) error { return p.step(ctx, backward) }

func (p *ReviewPager) step(ctx context.Context, d direction) error {
	unlock, err := p.ui.Lock(ctx, cursorLock)
	if err != nil {
		return err
	}
	defer unlock()

	hotelID, err := p.ui.Value(ctx, domain.FieldHotelID)
	if err != nil {
		return err
	}
	rawOffset, err := p.ui.Value(ctx, domain.FieldOffset)
	if err != nil {
		return err
	}
	offset, err := parseOffset(rawOffset)
	if err != nil {
		log.Warn().Err(err).Str("hotel_id", hotelID).Msg("review cursor is corrupt")
		return p.muted(ctx, fmt.Sprintf("Invalid review offset '%s'", rawOffset))
	}
	if offset+d.delta() < 0 {
		log.Debug().Str("hotel_id", hotelID).Int("offset", offset).Msg("already at first review page")
		return nil
	}

	q := url.Values{"id": {hotelID}, "dir": {d.String()}, "offset": {strconv.Itoa(offset)}}
	resp, err := p.remote.Fetch(ctx, domain.PathReviewData, q)
	if err != nil {
		log.Warn().Err(err).Str("path", domain.PathReviewData).Str("hotel_id", hotelID).Str("dir", d.String()).Msg("review fetch failed")
		observability.ObserveAction("reviews_"+d.String(), "failed")
		return p.muted(ctx, fmt.Sprintf("Unable to load reviews for hotel %s", hotelID))
	}
	if msg, bad := errorText(resp, failureKey(d)); bad {
		log.Warn().Str("hotel_id", hotelID).Str("dir", d.String()).Str("error", msg).Msg("review fetch rejected")
		observability.ObserveAction("reviews_"+d.String(), "rejected")
		return p.muted(ctx, msg)
	}

	total := intFlexible(resp["len"])
	if total == 0 {
		observability.ObserveAction("reviews_"+d.String(), "empty")
		return p.muted(ctx, fmt.Sprintf("No reviews for hotel %s", hotelID))
	}

	raw := objects(resp["reviews"])
	page := make([]domain.Review, 0, len(raw))
	for _, m := range raw {
		page = append(page, mapReview(m))
	}
	rows, err := render("reviewRows", page)
	if err != nil {
		return err
	}
	if err := p.ui.Replace(ctx, domain.RegionReviews, rows); err != nil {
		return err
	}

	next := offset + d.delta()
	if err := p.ui.SetValue(ctx, domain.FieldOffset, strconv.Itoa(next)); err != nil {
		return err
	}
	for _, ch := range pageControls(d, next, total) {
		if err := p.ui.SetEnabled(ctx, ch.control, ch.enabled); err != nil {
			return err
		}
	}
	observability.ObserveAction("reviews_"+d.String(), "ok")
	return nil
}

func (p *ReviewPager) muted(ctx context.Context, msg string) error {
	row, err := render("mutedRow", msg)
	if err != nil {
		return err
	}
	return p.ui.Replace(ctx, domain.RegionReviews, row)
}

// parseOffset accepts an empty field as the start of the list.
func parseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n%domain.PageSize != 0 {
		return 0, fmt.Errorf("offset %d is not a non-negative multiple of %d", n, domain.PageSize)
	}
	return n, nil
}
