// Package memory provides an in-memory implementation of
// transport.ActivityStore for testing and single-process deployments.
// The catalog is seeded at construction and lost when the process
// restarts.
package memory

import (
	"context"
	"sync"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/storage"
	"github.com/mergington/campus/pkg/transport"
)

// Store is a mutex-guarded in-memory ActivityStore.
type Store struct {
	mu         sync.RWMutex
	activities map[string]api.Activity
}

// Ensure Store implements transport.ActivityStore at compile time.
var _ transport.ActivityStore = (*Store)(nil)

// New creates a store seeded with the default Mergington catalog.
func New() *Store {
	return NewWith(storage.DefaultActivities())
}

// NewWith creates a store from the given catalog. The map is copied;
// the caller keeps ownership of its argument.
func NewWith(activities map[string]api.Activity) *Store {
	s := &Store{activities: make(map[string]api.Activity, len(activities))}
	for name, a := range activities {
		s.activities[name] = copyActivity(a)
	}
	return s
}

// List returns a copy of the full catalog.
func (s *Store) List(_ context.Context) (map[string]api.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]api.Activity, len(s.activities))
	for name, a := range s.activities {
		out[name] = copyActivity(a)
	}
	return out, nil
}

// Get returns one activity by name. Returns storage.ErrNotFound when the
// activity does not exist.
func (s *Store) Get(_ context.Context, name string) (*api.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := copyActivity(a)
	return &out, nil
}

// Signup appends email to the activity's participant list. Duplicate
// signups append again; the store does not deduplicate.
func (s *Store) Signup(_ context.Context, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return storage.ErrNotFound
	}

	a.Participants = append(a.Participants, email)
	s.activities[name] = a
	return nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// copyActivity deep-copies the participant slice so callers cannot
// mutate stored state.
func copyActivity(a api.Activity) api.Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}
