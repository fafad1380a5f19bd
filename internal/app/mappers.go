package app

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotel_browser/internal/domain"
)

// at walks a dotted path through nested JSON objects.
func at(m map[string]any, path string) any {
	var cur any = m
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

func stringAt(m map[string]any, path string) string {
	s, _ := at(m, path).(string)
	return s
}

// numberAt reads a JSON number or a numeric string ("8,5" counts as 8.5)
// from the first path that holds one.
func numberAt(m map[string]any, paths ...string) (float64, bool) {
	for _, p := range paths {
		switch v := at(m, p).(type) {
		case float64:
			return v, true
		case string:
			s := strings.TrimSpace(strings.Replace(v, ",", ".", 1))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// idAt is numberAt restricted to whole numbers.
func idAt(m map[string]any, paths ...string) (int64, bool) {
	f, ok := numberAt(m, paths...)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// hotelLink builds the outbound Expedia link shown next to a hotel.
func hotelLink(name, city string, id int64) string {
	if i := strings.Index(name, " - "); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	name = strings.ReplaceAll(nonWord.ReplaceAllString(name, ""), " ", "-")
	return fmt.Sprintf("expedia.com/%s-Hotels-%s.h%d.Hotel-Information", strings.ReplaceAll(city, " ", "-"), name, id)
}

// mapHotel turns one "sr" entry into a hotel; ok is false when it has no id.
func mapHotel(m map[string]any) (domain.Hotel, bool) {
	id, ok := idAt(m, "id")
	if !ok || id <= 0 {
		return domain.Hotel{}, false
	}
	city := stringAt(m, "ci")
	h := domain.Hotel{
		ID:      id,
		Name:    strings.TrimSpace(stringAt(m, "f")),
		Address: joinNonEmpty(", ", stringAt(m, "ad"), city, stringAt(m, "pr")),
	}
	h.Lat, _ = numberAt(m, "ll.lat")
	h.Lng, _ = numberAt(m, "ll.lng")
	h.Link = hotelLink(h.Name, city, h.ID)
	return h, true
}

// mapReview turns one review entry into a review; ok is false when it has no ids.
func mapReview(m map[string]any) (domain.Review, bool) {
	hotelID, ok := idAt(m, "hotelId")
	reviewID := stringAt(m, "reviewId")
	if !ok || reviewID == "" {
		return domain.Review{}, false
	}
	r := domain.Review{
		ReviewID:   reviewID,
		HotelID:    hotelID,
		Title:      stringAt(m, "title"),
		Text:       stringAt(m, "reviewText"),
		Username:   strings.TrimSpace(stringAt(m, "userNickname")),
		DatePosted: datePart(stringAt(m, "reviewSubmissionTime")),
	}
	if r.Username == "" {
		r.Username = "Anonymous"
	}
	if n, ok := numberAt(m, "ratingOverall"); ok {
		r.Rating = int(n)
	}
	return r, true
}

// datePart keeps the calendar date of an ISO date-time.
func datePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
