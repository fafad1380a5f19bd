package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_browser/internal/app"
	"hotel_browser/internal/domain"
)

func TestLinkService_ClickRecordsAndRedirects(t *testing.T) {
	store := seeded(t)
	l := app.NewLinkService(store)
	ctx := context.Background()

	to, err := l.Click(ctx, "ann", "expedia.com/x.h1")
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if to != "https://www.expedia.com/x.h1" {
		t.Fatalf("redirect target %q", to)
	}
	_, _ = l.Click(ctx, "ann", " expedia.com/x.h1 ")

	h, err := l.History(ctx, "ann")
	if err != nil || h["expedia.com/x.h1"] != 2 {
		t.Fatalf("History: %v %v", h, err)
	}
	if other, _ := l.History(ctx, "bob"); len(other) != 0 {
		t.Fatalf("history is per user: %v", other)
	}

	left, err := l.ClearHistory(ctx, "ann")
	if err != nil || len(left) != 0 {
		t.Fatalf("ClearHistory: %v %v", left, err)
	}
}

func TestLinkService_UnknownLinksAreRefused(t *testing.T) {
	store := seeded(t)
	l := app.NewLinkService(store)
	ctx := context.Background()

	for _, link := range []string{"", "   ", "evil.example/phish"} {
		if _, err := l.Click(ctx, "ann", link); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Click(%q): want ErrNotFound, got %v", link, err)
		}
	}
	if h, _ := l.History(ctx, "ann"); len(h) != 0 {
		t.Fatalf("refused clicks must not be counted: %v", h)
	}
}
