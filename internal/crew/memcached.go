package crew

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/winn0518/ShoreSquad/internal/models"
)

// rosterKey is the single memcached key holding the whole roster as one JSON
// blob. The roster is small enough that one blob beats per-signup keys, and
// duplicate checks need the full list anyway. Writes are read-modify-write
// with last write winning.
const rosterKey = "shoresquad:crew"

// MemcachedStore implements Store on memcached so the roster survives
// process restarts.
type MemcachedStore struct {
	client *memcache.Client
}

// NewMemcachedStore creates a MemcachedStore. addrs is a comma-separated
// list (e.g. "localhost:11211" or "host1:11211,host2:11211"). timeout and
// maxIdleConns configure the client; both use package defaults if zero.
func NewMemcachedStore(addrs string, timeout time.Duration, maxIdleConns int) (*MemcachedStore, error) {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdleConns > 0 {
		client.MaxIdleConns = maxIdleConns
	}
	return &MemcachedStore{client: client}, nil
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (s *MemcachedStore) Add(ctx context.Context, signup models.CrewSignup) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	roster, err := s.load()
	if err != nil {
		return err
	}

	key := signupKey(signup.EventID, signup.Email)
	for _, existing := range roster {
		if signupKey(existing.EventID, existing.Email) == key {
			return ErrDuplicateSignup
		}
	}

	roster = append(roster, signup)
	raw, err := json.Marshal(roster)
	if err != nil {
		return err
	}
	// No expiration: the roster lives until explicitly cleared.
	return s.client.Set(&memcache.Item{
		Key:   rosterKey,
		Value: raw,
	})
}

func (s *MemcachedStore) List(ctx context.Context) ([]models.CrewSignup, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return s.load()
}

func (s *MemcachedStore) Count(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	roster, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(roster), nil
}

// load reads the roster blob. A cache miss is an empty roster, not an error.
func (s *MemcachedStore) load() ([]models.CrewSignup, error) {
	item, err := s.client.Get(rosterKey)
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return nil, nil
		}
		return nil, err
	}
	var roster []models.CrewSignup
	if err := json.Unmarshal(item.Value, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// Ping checks if memcached is reachable. Used for health checks.
func (s *MemcachedStore) Ping() error {
	return s.client.Ping()
}

// Close closes the memcached client connections. Call during shutdown.
func (s *MemcachedStore) Close() error {
	return s.client.Close()
}
