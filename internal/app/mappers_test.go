package app

import "testing"

func TestHotelLink(t *testing.T) {
	cases := []struct {
		name, city string
		id         int64
		want       string
	}{
		{"Hilton San Francisco - Union Square", "San Francisco", 7, "expedia.com/San-Francisco-Hotels-Hilton-San-Francisco.h7.Hotel-Information"},
		{"Joe's B&B", "Austin", 8, "expedia.com/Austin-Hotels-Joes-BB.h8.Hotel-Information"},
	}
	for _, c := range cases {
		if got := hotelLink(c.name, c.city, c.id); got != c.want {
			t.Errorf("hotelLink(%q, %q) = %q, want %q", c.name, c.city, got, c.want)
		}
	}
}

func TestDatePart(t *testing.T) {
	cases := map[string]string{
		"2021-03-04T10:00:00Z":      "2021-03-04",
		"2021-03-04T23:30:00-05:00": "2021-03-04",
		"2019-12-31":                "2019-12-31",
		"":                          "",
		"yesterday":                 "",
	}
	for in, want := range cases {
		if got := datePart(in); got != want {
			t.Errorf("datePart(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNumberAt(t *testing.T) {
	m := map[string]any{"ll": map[string]any{"lat": "8,5", "lng": 3.25, "bad": "x"}, "id": "12", "frac": 1.5}
	if f, ok := numberAt(m, "ll.lat"); !ok || f != 8.5 {
		t.Fatalf("comma decimal: got %v %v", f, ok)
	}
	if f, ok := numberAt(m, "ll.bad", "ll.lng"); !ok || f != 3.25 {
		t.Fatalf("fallback path: got %v %v", f, ok)
	}
	if _, ok := numberAt(m, "ll.none", "ll.lat.deeper"); ok {
		t.Fatalf("missing path should not resolve")
	}
	if id, ok := idAt(m, "id"); !ok || id != 12 {
		t.Fatalf("string id: got %v %v", id, ok)
	}
	if _, ok := idAt(m, "frac"); ok {
		t.Fatalf("fractional id should be rejected")
	}
}
