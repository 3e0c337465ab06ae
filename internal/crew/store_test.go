package crew

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

func testSignup(eventID, email string) models.CrewSignup {
	return models.CrewSignup{
		ID:       "id-" + eventID + "-" + email,
		Name:     "Alex Tan",
		Email:    email,
		EventID:  eventID,
		JoinedAt: time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestInMemoryStore_AddAndList(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Add(ctx, testSignup("east-coast-sep", "alex@example.com")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(ctx, testSignup("east-coast-sep", "mei@example.com")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d signups, want 2", len(got))
	}
	if got[0].Email != "alex@example.com" {
		t.Errorf("List()[0].Email = %q, want insertion order preserved", got[0].Email)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestInMemoryStore_DuplicateSignup(t *testing.T) {
	tests := []struct {
		name          string
		first, second models.CrewSignup
		wantDup       bool
	}{
		{
			name:    "same event same email",
			first:   testSignup("east-coast-sep", "alex@example.com"),
			second:  testSignup("east-coast-sep", "alex@example.com"),
			wantDup: true,
		},
		{
			name:    "email case is ignored",
			first:   testSignup("east-coast-sep", "alex@example.com"),
			second:  testSignup("east-coast-sep", "Alex@Example.COM"),
			wantDup: true,
		},
		{
			name:    "email whitespace is ignored",
			first:   testSignup("east-coast-sep", "alex@example.com"),
			second:  testSignup("east-coast-sep", "  alex@example.com "),
			wantDup: true,
		},
		{
			name:    "same email different event",
			first:   testSignup("east-coast-sep", "alex@example.com"),
			second:  testSignup("changi-oct", "alex@example.com"),
			wantDup: false,
		},
		{
			name:    "different email same event",
			first:   testSignup("east-coast-sep", "alex@example.com"),
			second:  testSignup("east-coast-sep", "mei@example.com"),
			wantDup: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewInMemoryStore()
			ctx := context.Background()

			if err := s.Add(ctx, tt.first); err != nil {
				t.Fatalf("first Add() error = %v", err)
			}
			err := s.Add(ctx, tt.second)

			if tt.wantDup && !errors.Is(err, ErrDuplicateSignup) {
				t.Errorf("second Add() error = %v, want ErrDuplicateSignup", err)
			}
			if !tt.wantDup && err != nil {
				t.Errorf("second Add() error = %v, want nil", err)
			}
		})
	}
}

func TestInMemoryStore_ContextCanceled(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Add(ctx, testSignup("east-coast-sep", "alex@example.com")); !errors.Is(err, context.Canceled) {
		t.Errorf("Add() error = %v, want context.Canceled", err)
	}
	if _, err := s.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List() error = %v, want context.Canceled", err)
	}
	if _, err := s.Count(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Count() error = %v, want context.Canceled", err)
	}
}

func TestInMemoryStore_ListReturnsCopy(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Add(ctx, testSignup("east-coast-sep", "alex@example.com")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got[0].Name = "mutated"

	again, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if again[0].Name != "Alex Tan" {
		t.Error("List() exposes internal slice; mutation leaked into the store")
	}
}

func TestSignupKey(t *testing.T) {
	tests := []struct {
		name      string
		aEvent    string
		aEmail    string
		bEvent    string
		bEmail    string
		wantEqual bool
	}{
		{"identical", "e1", "a@b.c", "e1", "a@b.c", true},
		{"case folded", "e1", "A@B.C", "e1", "a@b.c", true},
		{"trimmed", "e1", " a@b.c ", "e1", "a@b.c", true},
		{"different event", "e1", "a@b.c", "e2", "a@b.c", false},
		{"different email", "e1", "a@b.c", "e1", "x@b.c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := signupKey(tt.aEvent, tt.aEmail)
			b := signupKey(tt.bEvent, tt.bEmail)

			if (a == b) != tt.wantEqual {
				t.Errorf("signupKey equality = %v, want %v (a=%q b=%q)", a == b, tt.wantEqual, a, b)
			}
		})
	}
}
