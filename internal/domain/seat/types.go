package seat

import "time"

// SearchWindow is the wanted reservation span on the target day, in minutes
// since midnight. Start is inclusive, End exclusive.
type SearchWindow struct {
	Start int
	End   int
}

func (w SearchWindow) Span() int { return w.End - w.Start }

// Booking is an existing reservation on a device, in minutes relative to the
// target day's midnight. Values outside [0, 1440) are legal for bookings that
// cross the day boundary.
type Booking struct {
	Start int
	End   int
}

type Device struct {
	ID          string
	DisplayName string
	Bookings    []Booking
}

type FreeInterval struct {
	DeviceID string
	Start    int
	End      int
}

func (f FreeInterval) Duration() int { return f.End - f.Start }

// Candidate is the best device/interval pair of one poll cycle.
type Candidate struct {
	Device   Device
	Interval FreeInterval
}

type FreeRatio struct {
	Enabled bool
	Min     float64 // 0..1
}

type SeatRange struct {
	Enabled bool
	Min     int
	Max     int
}

// Constraints is the read-only selection and reservation configuration.
type Constraints struct {
	FreeRatio           FreeRatio
	SeatRange           SeatRange
	RequireFullCoverage bool
	AutoConfirmDelta    time.Duration
	// DisableDelta auto-reserves regardless of how close the slot start is.
	DisableDelta       bool
	ReservationEnabled bool
}

// Identity is the authenticated account used for reservations.
type Identity struct {
	AccountNo int64
	Token     string
	Name      string
	PersonID  string
}

type ReservationResult struct {
	Success  bool
	DeviceID string
	Message  string
}
