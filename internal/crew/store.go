package crew

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/winn0518/ShoreSquad/internal/models"
)

// ErrDuplicateSignup is returned when the same email joins the same event twice.
var ErrDuplicateSignup = errors.New("already signed up")

// Store keeps the crew roster built from accepted join submissions.
type Store interface {
	Add(ctx context.Context, signup models.CrewSignup) error
	List(ctx context.Context) ([]models.CrewSignup, error)
	Count(ctx context.Context) (int, error)
}

// InMemoryStore implements Store with process-local state. The roster is
// lost on restart; use the memcached backend when signups should survive.
type InMemoryStore struct {
	mu      sync.RWMutex
	signups []models.CrewSignup
	seen    map[string]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		seen: make(map[string]struct{}),
	}
}

func (s *InMemoryStore) Add(ctx context.Context, signup models.CrewSignup) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	key := signupKey(signup.EventID, signup.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return ErrDuplicateSignup
	}
	s.seen[key] = struct{}{}
	s.signups = append(s.signups, signup)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]models.CrewSignup, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CrewSignup, len(s.signups))
	copy(out, s.signups)
	return out, nil
}

func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signups), nil
}

func signupKey(eventID, email string) string {
	return eventID + "\x00" + strings.ToLower(strings.TrimSpace(email))
}
