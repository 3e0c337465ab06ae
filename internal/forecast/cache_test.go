package forecast

import (
	"testing"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

func TestCache_Fresh(t *testing.T) {
	base := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute
	entry := []models.ForecastDay{{Day: "Today", Condition: "Sunny"}}

	tests := []struct {
		name      string
		days      []models.ForecastDay
		fetchedAt time.Time
		now       time.Time
		wantOK    bool
	}{
		{
			name:      "empty cache",
			days:      nil,
			fetchedAt: time.Time{},
			now:       base,
			wantOK:    false,
		},
		{
			name:      "just fetched",
			days:      entry,
			fetchedAt: base,
			now:       base,
			wantOK:    true,
		},
		{
			name:      "one second before expiry",
			days:      entry,
			fetchedAt: base,
			now:       base.Add(ttl - time.Second),
			wantOK:    true,
		},
		{
			name:      "exactly at ttl",
			days:      entry,
			fetchedAt: base,
			now:       base.Add(ttl),
			wantOK:    false,
		},
		{
			name:      "past ttl",
			days:      entry,
			fetchedAt: base,
			now:       base.Add(ttl + time.Hour),
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			if tt.days != nil {
				c.Replace(tt.days, tt.fetchedAt)
			}

			days, fetchedAt, ok := c.Fresh(tt.now, ttl)

			if ok != tt.wantOK {
				t.Fatalf("Fresh() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok {
				if len(days) != len(tt.days) {
					t.Errorf("Fresh() returned %d days, want %d", len(days), len(tt.days))
				}
				if !fetchedAt.Equal(tt.fetchedAt) {
					t.Errorf("Fresh() fetchedAt = %v, want %v", fetchedAt, tt.fetchedAt)
				}
			}
		})
	}
}

func TestCache_Any(t *testing.T) {
	base := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)

	c := NewCache()
	if _, _, ok := c.Any(); ok {
		t.Fatal("Any() on empty cache returned ok")
	}

	entry := []models.ForecastDay{{Day: "Today", Condition: "Cloudy"}}
	c.Replace(entry, base)

	// A day past any reasonable ttl; Any must still return the entry.
	days, fetchedAt, ok := c.Any()
	if !ok {
		t.Fatal("Any() returned !ok after Replace")
	}
	if days[0].Condition != "Cloudy" {
		t.Errorf("Any() condition = %q, want %q", days[0].Condition, "Cloudy")
	}
	if !fetchedAt.Equal(base) {
		t.Errorf("Any() fetchedAt = %v, want %v", fetchedAt, base)
	}
}

func TestCache_Replace(t *testing.T) {
	base := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)

	c := NewCache()
	c.Replace([]models.ForecastDay{{Condition: "Sunny"}}, base)
	c.Replace([]models.ForecastDay{{Condition: "Rainy"}}, base.Add(time.Minute))

	days, fetchedAt, ok := c.Any()
	if !ok {
		t.Fatal("Any() returned !ok after Replace")
	}
	if days[0].Condition != "Rainy" {
		t.Errorf("Replace did not swap entry: condition = %q, want %q", days[0].Condition, "Rainy")
	}
	if !fetchedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("Replace did not swap fetchedAt: got %v", fetchedAt)
	}
}
