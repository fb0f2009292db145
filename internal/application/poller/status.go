package poller

import (
	"time"

	"github.com/example/seatsched/internal/domain/seat"
)

// Status is a read-only snapshot for observers outside the loop goroutine.
type Status struct {
	State    string       `json:"state"`
	Cycles   int          `json:"cycles"`
	Reserved int          `json:"reserved"`
	Last     *LastOutcome `json:"last,omitempty"`
}

type LastOutcome struct {
	CycleID string    `json:"cycle_id"`
	At      time.Time `json:"at"`
	Kind    string    `json:"kind"`
	Seat    string    `json:"seat,omitempty"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to,omitempty"`
	Action  string    `json:"action,omitempty"`
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
}

func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.status
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	return s
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.status.State = s.String()
	l.mu.Unlock()
}

func (l *Loop) record(o Outcome) Outcome {
	last := &LastOutcome{CycleID: o.CycleID, At: o.At, Kind: o.Kind.String()}
	if o.Candidate != nil {
		last.Seat = o.Candidate.Device.DisplayName
		last.From = seat.FormatClock(o.Candidate.Interval.Start)
		last.To = seat.FormatClock(o.Candidate.Interval.End)
		last.Action = o.Decision.Action.String()
	}
	if o.Kind == Reserved {
		last.Success = o.Result.Success
		last.Message = o.Result.Message
	}
	if o.Err != nil {
		last.Error = o.Err.Error()
	}

	l.mu.Lock()
	l.status.Cycles++
	if o.Kind == Reserved && o.Result.Success {
		l.status.Reserved++
	}
	l.status.Last = last
	l.mu.Unlock()
	return o
}
