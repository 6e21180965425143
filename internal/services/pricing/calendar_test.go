package pricing

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNearestTradingDay_WeekdayUnchanged(t *testing.T) {
	for d := 2; d <= 6; d++ { // Mon 2024-12-02 .. Fri 2024-12-06
		in := day(2024, 12, d)
		if got := NearestTradingDay(in); !got.Equal(in) {
			t.Errorf("NearestTradingDay(%v) = %v, want unchanged", in, got)
		}
	}
}

func TestNearestTradingDay_WeekendToFriday(t *testing.T) {
	friday := day(2024, 12, 6)
	saturday := day(2024, 12, 7)
	sunday := day(2024, 12, 8)

	if got := NearestTradingDay(saturday); !got.Equal(friday) {
		t.Errorf("Saturday adjusted to %v, want %v", got, friday)
	}
	if got := NearestTradingDay(sunday); !got.Equal(friday) {
		t.Errorf("Sunday adjusted to %v, want %v", got, friday)
	}
}

func TestNearestTradingDay_Idempotent(t *testing.T) {
	// adjust(adjust(d)) == adjust(d) for a full year of dates
	d := day(2024, 1, 1)
	for i := 0; i < 366; i++ {
		once := NearestTradingDay(d)
		twice := NearestTradingDay(once)
		if !twice.Equal(once) {
			t.Fatalf("not idempotent for %v: adjust=%v, adjust^2=%v", d, once, twice)
		}
		d = d.AddDate(0, 0, 1)
	}
}

func TestDayKey_DropsTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)
	if DayKey(morning) != DayKey(evening) {
		t.Errorf("DayKey differs for same day: %s vs %s", DayKey(morning), DayKey(evening))
	}
	if DayKey(morning) != "2024-03-15" {
		t.Errorf("DayKey = %s, want 2024-03-15", DayKey(morning))
	}
}
