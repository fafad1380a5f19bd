package app

import (
	"context"
	"fmt"
	"strings"

	"hotel_browser/internal/domain"
)

// LinkService tracks which outbound hotel links a user follows.
type LinkService struct {
	links domain.LinkHistoryRepository
}

func NewLinkService(l domain.LinkHistoryRepository) *LinkService {
	return &LinkService{links: l}
}

// Click counts a click on link for user and returns where to send them.
// Only links that belong to a stored hotel are followed; anything else is
// domain.ErrNotFound so the service never acts as an open redirect.
func (s *LinkService) Click(ctx context.Context, user, link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", domain.ErrNotFound
	}
	ok, err := s.links.KnownLink(ctx, link)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("link %q: %w", link, domain.ErrNotFound)
	}
	if err := s.links.RecordClick(ctx, user, link); err != nil {
		return "", fmt.Errorf("record click: %w", err)
	}
	return "https://www." + link, nil
}

func (s *LinkService) History(ctx context.Context, user string) (map[string]int, error) {
	return s.links.LinkHistory(ctx, user)
}

// ClearHistory drops user's clicks and returns the (now empty) history.
func (s *LinkService) ClearHistory(ctx context.Context, user string) (map[string]int, error) {
	if err := s.links.ClearLinkHistory(ctx, user); err != nil {
		return nil, err
	}
	return s.links.LinkHistory(ctx, user)
}
