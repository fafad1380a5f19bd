package browser_test

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"hotel_browser/internal/domain"
)

// ---- fakes ----

type call struct {
	path  string
	query url.Values
}

type fakeRemote struct {
	mu    sync.Mutex
	calls []call
	fn    func(path string, q url.Values) (domain.Response, error)
}

func (f *fakeRemote) Fetch(ctx context.Context, path string, q url.Values) (domain.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{path: path, query: q})
	fn := f.fn
	f.mu.Unlock()
	return fn(path, q)
}

func (f *fakeRemote) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

// replying returns a remote that answers every request with body.
func replying(body string) *fakeRemote {
	return &fakeRemote{fn: func(string, url.Values) (domain.Response, error) {
		return decode(body), nil
	}}
}

func failing(err error) *fakeRemote {
	return &fakeRemote{fn: func(string, url.Values) (domain.Response, error) {
		return nil, err
	}}
}

// decode mimics the wire: numbers become float64.
func decode(body string) domain.Response {
	var r domain.Response
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		panic(err)
	}
	return r
}

type sinkRecorder struct {
	hotelID int64
	coords  domain.Coords
	calls   int
}

func (s *sinkRecorder) StageCoordinates(_ context.Context, hotelID int64, c domain.Coords) error {
	s.hotelID, s.coords = hotelID, c
	s.calls++
	return nil
}
