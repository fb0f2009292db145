package seat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" (or "HH:MM:SS", seconds ignored) to minutes since midnight.
// "24:00" is accepted as end-of-day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DayStart returns local midnight of day in loc.
func DayStart(day time.Time, loc *time.Location) time.Time {
	y, mo, d := day.In(loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc)
}

// MinuteOfDay returns ts as whole minutes since dayStart. Window and bookings
// must share the same dayStart or slot arithmetic is meaningless.
func MinuteOfDay(ts, dayStart time.Time) int {
	d := ts.Sub(dayStart)
	m := int(d / time.Minute)
	// floor for timestamps before midnight
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}

// At returns the absolute time of minutes past dayStart.
func At(dayStart time.Time, minutes int) time.Time {
	return dayStart.Add(time.Duration(minutes) * time.Minute)
}
