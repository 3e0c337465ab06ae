package events

import (
	"sort"
	"strings"
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

// Catalog is the read-only set of scheduled cleanups. Events come from
// config; when none are configured the built-in seed list is used so the
// page never renders empty.
type Catalog struct {
	events []models.CleanupEvent
	byID   map[string]models.CleanupEvent
}

// NewCatalog builds a Catalog ordered by date ascending.
func NewCatalog(evts []models.CleanupEvent) *Catalog {
	if len(evts) == 0 {
		evts = defaultEvents()
	}
	sorted := make([]models.CleanupEvent, len(evts))
	copy(sorted, evts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	byID := make(map[string]models.CleanupEvent, len(sorted))
	for _, e := range sorted {
		byID[e.ID] = e
	}
	return &Catalog{events: sorted, byID: byID}
}

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	Region   string
	Upcoming bool
}

// List returns the events matching f, ordered by date ascending. Upcoming
// filtering compares against the now the caller provides.
func (c *Catalog) List(now time.Time, f Filter) []models.CleanupEvent {
	region := strings.ToLower(strings.TrimSpace(f.Region))
	out := make([]models.CleanupEvent, 0, len(c.events))
	for _, e := range c.events {
		if region != "" && strings.ToLower(e.Region) != region {
			continue
		}
		if f.Upcoming && e.Date.Before(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Get looks up an event by ID.
func (c *Catalog) Get(id string) (models.CleanupEvent, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Len reports the catalog size.
func (c *Catalog) Len() int {
	return len(c.events)
}

// defaultEvents is the seed catalog used when config carries no events.
func defaultEvents() []models.CleanupEvent {
	sgt := time.FixedZone("SGT", 8*60*60)
	return []models.CleanupEvent{
		{
			ID:           "pasir-ris-sep",
			Title:        "Pasir Ris Sweep",
			Beach:        "Pasir Ris Beach",
			Region:       "East",
			MeetingPoint: "Street View Asia, Pasir Ris Park Carpark E",
			Date:         time.Date(2026, time.September, 5, 8, 0, 0, 0, sgt),
		},
		{
			ID:           "east-coast-sep",
			Title:        "East Coast Morning Cleanup",
			Beach:        "East Coast Park Area C",
			Region:       "East",
			MeetingPoint: "Carpark C2, East Coast Park",
			Date:         time.Date(2026, time.September, 19, 7, 30, 0, 0, sgt),
		},
		{
			ID:           "changi-oct",
			Title:        "Changi Beach Crew Day",
			Beach:        "Changi Beach",
			Region:       "East",
			MeetingPoint: "Changi Beach Park Carpark 4",
			Date:         time.Date(2026, time.October, 3, 8, 0, 0, 0, sgt),
		},
		{
			ID:           "sembawang-oct",
			Title:        "Sembawang Shoreline Sweep",
			Beach:        "Sembawang Beach",
			Region:       "North",
			MeetingPoint: "Beaulieu House Jetty",
			Date:         time.Date(2026, time.October, 17, 8, 30, 0, 0, sgt),
		},
	}
}
