package seat

import (
	"reflect"
	"testing"
)

func TestFreeIntervals(t *testing.T) {
	w := SearchWindow{Start: 510, End: 1320}

	tests := []struct {
		name     string
		window   SearchWindow
		bookings []Booking
		want     []FreeInterval
	}{
		{
			name:   "no bookings yields the whole window",
			window: w,
			want:   []FreeInterval{{DeviceID: "d", Start: 510, End: 1320}},
		},
		{
			name:     "single booking covering the window",
			window:   w,
			bookings: []Booking{{Start: 510, End: 1320}},
			want:     nil,
		},
		{
			name:     "nested bookings leave no spurious gap",
			window:   SearchWindow{Start: 0, End: 120},
			bookings: []Booking{{Start: 0, End: 120}, {Start: 30, End: 60}},
			want:     nil,
		},
		{
			name:     "two bookings out of order",
			window:   w,
			bookings: []Booking{{Start: 900, End: 1020}, {Start: 600, End: 660}},
			want: []FreeInterval{
				{DeviceID: "d", Start: 510, End: 600},
				{DeviceID: "d", Start: 660, End: 900},
				{DeviceID: "d", Start: 1020, End: 1320},
			},
		},
		{
			name:     "booking before the window start",
			window:   w,
			bookings: []Booking{{Start: 420, End: 540}},
			want:     []FreeInterval{{DeviceID: "d", Start: 540, End: 1320}},
		},
		{
			name:     "booking entirely after the window",
			window:   w,
			bookings: []Booking{{Start: 1380, End: 1400}},
			want:     []FreeInterval{{DeviceID: "d", Start: 510, End: 1320}},
		},
		{
			name:     "booking from the previous day",
			window:   w,
			bookings: []Booking{{Start: -120, End: 600}},
			want:     []FreeInterval{{DeviceID: "d", Start: 600, End: 1320}},
		},
		{
			name:     "overlapping bookings extend the cursor",
			window:   w,
			bookings: []Booking{{Start: 600, End: 700}, {Start: 650, End: 800}, {Start: 660, End: 690}},
			want: []FreeInterval{
				{DeviceID: "d", Start: 510, End: 600},
				{DeviceID: "d", Start: 800, End: 1320},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIntervals(Device{ID: "d", Bookings: tt.bookings}, tt.window)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FreeIntervals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreeIntervalsDoesNotReorderInput(t *testing.T) {
	d := Device{ID: "d", Bookings: []Booking{{Start: 900, End: 1020}, {Start: 600, End: 660}}}
	_ = FreeIntervals(d, SearchWindow{Start: 510, End: 1320})
	if d.Bookings[0].Start != 900 {
		t.Fatalf("input bookings were reordered: %v", d.Bookings)
	}
}
