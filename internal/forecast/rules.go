package forecast

import "strings"

// conditionRule maps a lowercase substring of the raw forecast text to a
// display condition and emoji.
type conditionRule struct {
	substring string
	condition string
	emoji     string
}

// conditionRules is evaluated top to bottom and the first match wins. The
// order is load-bearing: "thunder" precedes "showers" and "rain" so that
// "Thundery Showers with Heavy Rain" resolves to Thundery, and "partly"
// precedes "cloudy" so "Partly Cloudy" does not collapse into Cloudy.
// Do not reorder.
var conditionRules = []conditionRule{
	{"sunny", "Sunny", "☀️"},
	{"fine", "Sunny", "☀️"},
	{"partly", "Partly Cloudy", "⛅"},
	{"cloudy", "Cloudy", "☁️"},
	{"overcast", "Cloudy", "☁️"},
	{"thunder", "Thundery", "⛈️"},
	{"storm", "Thundery", "⛈️"},
	{"showers", "Showers", "🌧️"},
	{"rain", "Rainy", "🌧️"},
	{"wind", "Windy", "💨"},
}

const defaultEmoji = "🌤️"

// classify maps raw forecast text to a (condition, emoji) pair. Text that
// matches no rule becomes its own condition with the default emoji.
func classify(raw string) (condition, emoji string) {
	lower := strings.ToLower(raw)
	for _, rule := range conditionRules {
		if strings.Contains(lower, rule.substring) {
			return rule.condition, rule.emoji
		}
	}
	return raw, defaultEmoji
}
