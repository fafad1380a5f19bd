// internal/adapters/backend/client.go
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/domain"
)

// Client is the browser's RemoteDataClient over HTTP. It performs exactly one
// attempt per call; the controllers decide what a failure looks like.
type Client struct {
	base string
	hc   *http.Client
	user string
	rl   *rate.Limiter
}

// New builds a client for the service at base acting as user.
func New(base, user string, rps int) (*Client, error) {
	if _, err := url.Parse(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{},
		user: user,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var _ domain.RemoteDataClient = (*Client)(nil)

// Fetch GETs path?query and decodes the JSON object in the body.
// 4xx replies still carry a JSON body with the service's "Error" message,
// so they decode like successes; 5xx and non-JSON bodies are errors.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) (domain.Response, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-browser/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.user != "" {
		req.Header.Set("X-Username", c.user)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		observability.ObserveExternal("backend", path, 0, time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	observability.ObserveExternal("backend", path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusInternalServerError {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRemote, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out domain.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: status %d: empty body", domain.ErrRemote, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: status %d: body is not an object", domain.ErrRemote, resp.StatusCode)
	}
	return out, nil
}
