// Package surface holds presentation surfaces the browser controllers render into.
package surface

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"hotel_browser/internal/domain"
)

// State is a plain snapshot of a surface.
type State struct {
	Fields  map[string]string `json:"fields"`
	Regions map[string]string `json:"regions"`
	Enabled map[string]bool   `json:"enabled"`
	Classes map[string]string `json:"classes"`
}

func NewState() State {
	return State{
		Fields:  map[string]string{},
		Regions: map[string]string{},
		Enabled: map[string]bool{},
		Classes: map[string]string{},
	}
}

// Memory is a mutex-guarded in-process surface. Controllers built over the
// same Memory share its locks and tokens.
type Memory struct {
	mu sync.Mutex
	st State

	locks   map[string]*semaphore.Weighted
	issued  map[string]uint64
	applied map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{
		st:      NewState(),
		locks:   map[string]*semaphore.Weighted{},
		issued:  map[string]uint64{},
		applied: map[string]uint64{},
	}
}

var _ domain.SessionSurface = (*Memory)(nil)

func (m *Memory) Lock(ctx context.Context, name string) (func(), error) {
	m.mu.Lock()
	sem, ok := m.locks[name]
	if !ok {
		sem = semaphore.NewWeighted(1)
		m.locks[name] = sem
	}
	m.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(func() { sem.Release(1) }) }, nil
}

func (m *Memory) Issue(_ context.Context, key string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued[key]++
	return m.issued[key], nil
}

func (m *Memory) Apply(_ context.Context, key string, token uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token <= m.applied[key] {
		return false, nil
	}
	m.applied[key] = token
	return true, nil
}

func (m *Memory) Value(_ context.Context, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Fields[field], nil
}

func (m *Memory) SetValue(_ context.Context, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Fields[field] = value
	return nil
}

func (m *Memory) Replace(_ context.Context, region, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Regions[region] = html
	return nil
}

func (m *Memory) SetEnabled(_ context.Context, control string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Enabled[control] = enabled
	return nil
}

func (m *Memory) SetClass(_ context.Context, element, class string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Classes[element] = class
	return nil
}

// HasField reports whether field was ever written.
func (m *Memory) HasField(field string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.st.Fields[field]
	return ok
}

func (m *Memory) Region(region string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Regions[region]
}

// Enabled returns the control's state and whether it was ever set.
func (m *Memory) Enabled(control string) (enabled, set bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	enabled, set = m.st.Enabled[control]
	return enabled, set
}

func (m *Memory) Class(element string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.Classes[element]
}

// Snapshot returns a deep copy of the current state.
func (m *Memory) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := NewState()
	for k, v := range m.st.Fields {
		out.Fields[k] = v
	}
	for k, v := range m.st.Regions {
		out.Regions[k] = v
	}
	for k, v := range m.st.Enabled {
		out.Enabled[k] = v
	}
	for k, v := range m.st.Classes {
		out.Classes[k] = v
	}
	return out
}
