package forecast

import (
	"time"

	"github.com/winn0518/ShoreSquad/internal/models"
)

// dayCount is the size of one forecast cycle: today plus the next three days.
const dayCount = 4

// buildDays turns the first dayCount upstream entries into display records.
// Every label derives from the single now value so a cycle is internally
// consistent even when built close to midnight.
func buildDays(now time.Time, raws []models.AreaForecast) []models.ForecastDay {
	days := make([]models.ForecastDay, 0, dayCount)
	for i := 0; i < dayCount && i < len(raws); i++ {
		raw := raws[i].Forecast
		condition, emoji := classify(raw)
		days = append(days, models.ForecastDay{
			Day:       dayLabel(now, i),
			Date:      dateLabel(now, i),
			Condition: condition,
			Forecast:  raw,
			Emoji:     emoji,
		})
	}
	return days
}

func dayLabel(now time.Time, offset int) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return now.AddDate(0, 0, offset).Format("Mon")
	}
}

func dateLabel(now time.Time, offset int) string {
	return now.AddDate(0, 0, offset).Format("Jan 2")
}

// simulatedDays is the fixed fallback cycle shown when there is neither live
// nor cached data. Conditions, texts and emojis are literal; only the day
// and date labels come from now.
func simulatedDays(now time.Time) []models.ForecastDay {
	fixed := []struct {
		condition string
		forecast  string
		emoji     string
	}{
		{"Sunny", "Sunny", "☀️"},
		{"Partly Cloudy", "Partly Cloudy", "⛅"},
		{"Thundery", "Thundery Showers", "⛈️"},
		{"Rainy", "Rain", "🌧️"},
	}

	days := make([]models.ForecastDay, 0, dayCount)
	for i, f := range fixed {
		days = append(days, models.ForecastDay{
			Day:       dayLabel(now, i),
			Date:      dateLabel(now, i),
			Condition: f.condition,
			Forecast:  f.forecast,
			Emoji:     f.emoji,
		})
	}
	return days
}
