package seat

import "sort"

// FreeIntervals returns the gaps between a device's bookings inside window,
// ordered by start. Overlapping or nested bookings are handled by tracking
// the furthest booking end seen so far.
func FreeIntervals(d Device, w SearchWindow) []FreeInterval {
	bookings := make([]Booking, len(d.Bookings))
	copy(bookings, d.Bookings)
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].Start < bookings[j].Start })

	var out []FreeInterval
	cursor := w.Start
	for _, b := range bookings {
		if cursor >= w.End {
			break
		}
		if b.Start > cursor {
			end := b.Start
			if end > w.End {
				end = w.End
			}
			out = append(out, FreeInterval{DeviceID: d.ID, Start: cursor, End: end})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < w.End {
		out = append(out, FreeInterval{DeviceID: d.ID, Start: cursor, End: w.End})
	}
	return out
}
