package events

import (
	"testing"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

func testEvents() []models.CleanupEvent {
	sgt := time.FixedZone("SGT", 8*60*60)
	return []models.CleanupEvent{
		{
			ID:     "late",
			Title:  "Latest Cleanup",
			Beach:  "Changi Beach",
			Region: "East",
			Date:   time.Date(2026, time.October, 10, 9, 0, 0, 0, sgt),
		},
		{
			ID:     "early",
			Title:  "Earliest Cleanup",
			Beach:  "Sembawang Beach",
			Region: "North",
			Date:   time.Date(2026, time.August, 1, 8, 0, 0, 0, sgt),
		},
		{
			ID:     "mid",
			Title:  "Middle Cleanup",
			Beach:  "East Coast Park",
			Region: "East",
			Date:   time.Date(2026, time.September, 12, 9, 0, 0, 0, sgt),
		},
	}
}

func TestNewCatalog_SortsByDate(t *testing.T) {
	c := NewCatalog(testEvents())

	all := c.List(time.Time{}, Filter{})
	wantOrder := []string{"early", "mid", "late"}
	if len(all) != len(wantOrder) {
		t.Fatalf("List() returned %d events, want %d", len(all), len(wantOrder))
	}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("List()[%d].ID = %q, want %q", i, all[i].ID, id)
		}
	}
}

func TestNewCatalog_EmptyUsesSeed(t *testing.T) {
	c := NewCatalog(nil)

	if c.Len() == 0 {
		t.Fatal("NewCatalog(nil) produced an empty catalog")
	}
	if _, ok := c.Get("pasir-ris-sep"); !ok {
		t.Error("seed catalog missing pasir-ris-sep")
	}
}

func TestCatalog_List(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{
			name:    "no filter returns everything",
			filter:  Filter{},
			wantIDs: []string{"early", "mid", "late"},
		},
		{
			name:    "region match",
			filter:  Filter{Region: "East"},
			wantIDs: []string{"mid", "late"},
		},
		{
			name:    "region is case insensitive",
			filter:  Filter{Region: "east"},
			wantIDs: []string{"mid", "late"},
		},
		{
			name:    "region with surrounding whitespace",
			filter:  Filter{Region: "  North  "},
			wantIDs: []string{"early"},
		},
		{
			name:    "unknown region matches nothing",
			filter:  Filter{Region: "West"},
			wantIDs: []string{},
		},
		{
			name:    "upcoming drops past events",
			filter:  Filter{Upcoming: true},
			wantIDs: []string{"mid", "late"},
		},
		{
			name:    "region and upcoming combine",
			filter:  Filter{Region: "north", Upcoming: true},
			wantIDs: []string{},
		},
	}

	c := NewCatalog(testEvents())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.List(now, tt.filter)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("List() returned %d events, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("List()[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCatalog_Get(t *testing.T) {
	c := NewCatalog(testEvents())

	e, ok := c.Get("mid")
	if !ok {
		t.Fatal("Get(mid) returned !ok")
	}
	if e.Title != "Middle Cleanup" {
		t.Errorf("Get(mid).Title = %q, want %q", e.Title, "Middle Cleanup")
	}

	if _, ok := c.Get("nope"); ok {
		t.Error("Get(nope) returned ok for unknown ID")
	}
}
