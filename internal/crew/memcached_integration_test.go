//go:build integration
// +build integration

package crew

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

// TestMemcachedStore_AddAndList_Integration verifies the roster round-trips
// through a running memcached instance.
func TestMemcachedStore_AddAndList_Integration(t *testing.T) {
	s, err := NewMemcachedStore("localhost:11211", 500*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("NewMemcachedStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Ping(); err != nil {
		t.Skipf("memcached not reachable: %v", err)
	}

	ctx := context.Background()
	email := fmt.Sprintf("alex+%d@example.com", time.Now().UnixNano())
	signup := models.CrewSignup{
		ID:       "it-1",
		Name:     "Alex Tan",
		Email:    email,
		EventID:  "east-coast-sep",
		JoinedAt: time.Now().UTC(),
	}

	if err := s.Add(ctx, signup); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	roster, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	found := false
	for _, got := range roster {
		if got.Email == email {
			found = true
		}
	}
	if !found {
		t.Errorf("List() missing signup for %s", email)
	}

	if err := s.Add(ctx, signup); !errors.Is(err, ErrDuplicateSignup) {
		t.Errorf("second Add() error = %v, want ErrDuplicateSignup", err)
	}
}

// TestMemcachedStore_EmptyRoster_Integration verifies a missing roster key
// reads as an empty roster rather than an error.
func TestMemcachedStore_EmptyRoster_Integration(t *testing.T) {
	s, err := NewMemcachedStore("localhost:11211", 500*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("NewMemcachedStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Ping(); err != nil {
		t.Skipf("memcached not reachable: %v", err)
	}

	// The key may exist from earlier runs; Count must simply not error.
	if _, err := s.Count(context.Background()); err != nil {
		t.Errorf("Count() error = %v", err)
	}
}
