package seat

import "time"

type Action int

const (
	Skip Action = iota
	AutoReserve
	AskConfirmation
)

func (a Action) String() string {
	switch a {
	case Skip:
		return "skip"
	case AutoReserve:
		return "auto-reserve"
	case AskConfirmation:
		return "ask-confirmation"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide along with the two signals it was based on.
type Decision struct {
	Action       Action
	TimeToStart  time.Duration
	LeadOK       bool
	FullCoverage bool
}

// Decide picks what to do with a candidate. Proximity to the slot start is
// the primary risk signal; partial coverage of the window is secondary and
// only gates auto-reservation when RequireFullCoverage is set.
func Decide(cand Candidate, w SearchWindow, c Constraints, now, dayStart time.Time) Decision {
	tts := At(dayStart, cand.Interval.Start).Sub(now)
	d := Decision{
		TimeToStart:  tts,
		LeadOK:       c.DisableDelta || tts > c.AutoConfirmDelta,
		FullCoverage: cand.Interval.Start <= w.Start && cand.Interval.End >= w.End,
	}
	switch {
	case !c.ReservationEnabled:
		d.Action = Skip
	case d.LeadOK && (!c.RequireFullCoverage || d.FullCoverage):
		d.Action = AutoReserve
	default:
		d.Action = AskConfirmation
	}
	return d
}
