package browser

import (
	"fmt"
	"strconv"
	"strings"

	"hotel_browser/internal/domain"
)

/********** response readers (the service answers with loosely typed JSON) **********/

// errorText reports whether resp carries a truthy failure message under key.
func errorText(resp domain.Response, key string) (string, bool) {
	v, ok := resp[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case bool:
		return strconv.FormatBool(t), t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), t != 0
	default:
		return fmt.Sprint(t), true
	}
}

// isTrue is an identity test against the JSON literal true; "true", 1 and friends do not count.
func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func lookupStr(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// floatFlexible: number from float64/int/string like "8,0".
func floatFlexible(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// intFlexible mirrors parseInt: leading digits of strings, truncation of numbers.
func intFlexible(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		s := strings.TrimSpace(t)
		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
			end++
		}
		if n, err := strconv.Atoi(s[:end]); err == nil {
			return n
		}
	}
	return 0
}

func objects(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(it))
	}
	return out
}

/********** mappers **********/

func mapSummary(m map[string]any) domain.HotelSummary {
	h := domain.HotelSummary{
		HotelName:  lookupStr(m, "hotelname"),
		Address:    lookupStr(m, "address"),
		Link:       lookupStr(m, "link"),
		IsFavorite: isTrue(m["fav"]),
	}
	if id, ok := floatFlexible(m["hotelid"]); ok {
		h.HotelID = int64(id)
	}
	if r, ok := floatFlexible(m["rating"]); ok {
		h.Rating = r
	}
	return h
}

func mapDetail(m map[string]any) domain.HotelDetail {
	d := domain.HotelDetail{HotelSummary: mapSummary(m)}
	d.Coords.Lat, _ = floatFlexible(m["lat"])
	d.Coords.Lng, _ = floatFlexible(m["lng"])
	return d
}

func mapReview(m map[string]any) domain.Review {
	return domain.Review{
		Username:   lookupStr(m, "username"),
		Title:      lookupStr(m, "title"),
		Text:       lookupStr(m, "text"),
		DatePosted: lookupStr(m, "dateposted"),
	}
}
