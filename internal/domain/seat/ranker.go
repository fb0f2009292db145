package seat

import (
	"strconv"
	"strings"
)

// ParseSeatNumber extracts the numeric suffix after the last '-' of a display
// name ("2F-123" -> 123). ok is false when the name carries no seat number.
func ParseSeatNumber(displayName string) (n int, ok bool) {
	i := strings.LastIndex(displayName, "-")
	if i < 0 || i == len(displayName)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(displayName[i+1:]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Ranked is a free interval annotated with the values used to rank it.
type Ranked struct {
	Candidate
	Duration int
	Ratio    float64
}

func inSeatRange(d Device, r SeatRange) bool {
	if !r.Enabled {
		return true
	}
	n, ok := ParseSeatNumber(d.DisplayName)
	if !ok {
		return false
	}
	return n >= r.Min && n <= r.Max
}

// Eligible returns every free interval across devices that passes the ratio
// and seat-range filters, in device then interval order.
func Eligible(devices []Device, w SearchWindow, c Constraints) []Ranked {
	span := w.Span()
	if span <= 0 {
		return nil
	}
	var out []Ranked
	for _, d := range devices {
		if !inSeatRange(d, c.SeatRange) {
			continue
		}
		for _, fi := range FreeIntervals(d, w) {
			dur := fi.Duration()
			ratio := float64(dur) / float64(span)
			if c.FreeRatio.Enabled && ratio < c.FreeRatio.Min {
				continue
			}
			out = append(out, Ranked{
				Candidate: Candidate{Device: d, Interval: fi},
				Duration:  dur,
				Ratio:     ratio,
			})
		}
	}
	return out
}

// SelectBest returns the eligible interval with the strictly longest
// duration. Ties keep the first one seen, so the result is deterministic for
// a given device order.
func SelectBest(devices []Device, w SearchWindow, c Constraints) (Candidate, bool) {
	eligible := Eligible(devices, w, c)
	if len(eligible) == 0 {
		return Candidate{}, false
	}
	best := eligible[0]
	for _, r := range eligible[1:] {
		if r.Duration > best.Duration {
			best = r
		}
	}
	return best.Candidate, true
}
