// Package pricing implements trading-day price resolution with source
// fallback and a per-portfolio price cache.
package pricing

import "time"

// NearestTradingDay walks a date backwards to the most recent weekday.
// Weekdays are returned unchanged. Holidays are not modeled; sources
// that have no bar for a holiday trigger the resolver's day-by-day
// lookback instead.
func NearestTradingDay(date time.Time) time.Time {
	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, -1)
	}
	return date
}

// DayKey formats a date as the canonical YYYY-MM-DD cache key component,
// dropping any time-of-day so two times on the same day share a key.
func DayKey(date time.Time) string {
	return date.Format("2006-01-02")
}
