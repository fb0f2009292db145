package poller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/seatsched/internal/domain/seat"
	"github.com/example/seatsched/internal/internaltypes"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type State int

const (
	Fetching State = iota
	Deciding
	IdleWait
	Stopped
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Deciding:
		return "deciding"
	case IdleWait:
		return "idle-wait"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Kind is how a single cycle ended.
type Kind int

const (
	FetchFailed Kind = iota
	NoCandidate
	Skipped
	Declined
	Reserved
	SessionExpired
	Aborted
)

func (k Kind) String() string {
	switch k {
	case FetchFailed:
		return "fetch-failed"
	case NoCandidate:
		return "no-candidate"
	case Skipped:
		return "skipped"
	case Declined:
		return "declined"
	case Reserved:
		return "reserved"
	case SessionExpired:
		return "session-expired"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

type Outcome struct {
	CycleID   string
	At        time.Time
	Kind      Kind
	Candidate *seat.Candidate
	Decision  seat.Decision
	Result    seat.ReservationResult
	Err       error
}

type Source interface {
	Devices(ctx context.Context, roomID string, dayStart time.Time) ([]seat.Device, error)
}

type Reserver interface {
	Execute(ctx context.Context, dev seat.Device, interval seat.FreeInterval, dayStart time.Time, id seat.Identity) (seat.ReservationResult, error)
}

// Prompter is the human in the loop. Both calls may block indefinitely.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
	WaitContinue(ctx context.Context, message string) error
}

type Config struct {
	RoomID      string
	DayStart    time.Time
	Window      seat.SearchWindow
	Constraints seat.Constraints
	Interval    time.Duration
}

// Loop drives fetch, rank, decide and reserve, one cycle at a time. Nothing
// in it runs concurrently, so at most one reservation is ever in flight.
type Loop struct {
	cfg      Config
	identity seat.Identity
	source   Source
	reserver Reserver
	prompter Prompter
	clock    Clock
	log      *logrus.Logger

	mu     sync.Mutex
	status Status
}

func New(cfg Config, id seat.Identity, src Source, res Reserver, p Prompter, clk Clock, logger *logrus.Logger) *Loop {
	if clk == nil {
		clk = RealClock{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	return &Loop{
		cfg:      cfg,
		identity: id,
		source:   src,
		reserver: res,
		prompter: p,
		clock:    clk,
		log:      logger,
		status:   Status{State: Fetching.String()},
	}
}

// Run loops until ctx is cancelled or a fatal error occurs. Cancellation is
// only observed between cycles and while idle.
func (l *Loop) Run(ctx context.Context) error {
	defer l.setState(Stopped)
	l.log.WithFields(logrus.Fields{
		"room":     l.cfg.RoomID,
		"date":     l.cfg.DayStart.Format("2006-01-02"),
		"window":   seat.FormatClock(l.cfg.Window.Start) + "-" + seat.FormatClock(l.cfg.Window.End),
		"interval": l.cfg.Interval,
	}).Info("starting seat search")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := l.Cycle(ctx)
		if err != nil {
			return err
		}
		if out.Kind == Reserved {
			if err := l.prompter.WaitContinue(ctx, "Press Enter to continue..."); err != nil {
				return fmt.Errorf("continue prompt: %w", err)
			}
			continue
		}

		l.setState(IdleWait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(l.cfg.Interval):
		}
	}
}

// Cycle runs one Fetching -> Deciding pass. The returned error is non-nil
// only for failures that must stop the loop. Stop requests never interrupt
// the fetch or the reservation call: a cancelled POST may still have been
// committed server-side. Those calls are bounded by the client timeout.
func (l *Loop) Cycle(ctx context.Context) (Outcome, error) {
	callCtx := context.WithoutCancel(ctx)
	out := Outcome{CycleID: uuid.NewString(), At: l.clock.Now()}
	log := l.log.WithField("cycle", out.CycleID)
	retry := logrus.Fields{"retry_in": l.cfg.Interval.String()}

	l.setState(Fetching)
	devices, err := l.source.Devices(callCtx, l.cfg.RoomID, l.cfg.DayStart)
	if err != nil {
		if errors.Is(err, internaltypes.ErrAuthExpired) {
			out.Kind, out.Err = SessionExpired, err
			log.WithError(err).Error("session is no longer valid")
			return l.record(out), err
		}
		out.Kind, out.Err = FetchFailed, err
		log.WithError(err).WithFields(retry).Warn("fetching seats failed")
		return l.record(out), nil
	}

	l.setState(Deciding)
	cand, ok := seat.SelectBest(devices, l.cfg.Window, l.cfg.Constraints)
	if !ok {
		out.Kind = NoCandidate
		log.WithFields(retry).WithField("devices", len(devices)).Info("no seat matches the constraints")
		return l.record(out), nil
	}
	out.Candidate = &cand
	log = log.WithFields(logrus.Fields{
		"seat": cand.Device.DisplayName,
		"from": seat.FormatClock(cand.Interval.Start),
		"to":   seat.FormatClock(cand.Interval.End),
	})
	log.Info("best seat found")

	dec := seat.Decide(cand, l.cfg.Window, l.cfg.Constraints, l.clock.Now(), l.cfg.DayStart)
	out.Decision = dec
	switch dec.Action {
	case seat.Skip:
		out.Kind = Skipped
		log.WithFields(retry).Info("reservation disabled, not reserving")
		return l.record(out), nil
	case seat.AskConfirmation:
		yes, err := l.prompter.Confirm(ctx, l.question(cand, dec))
		if err != nil {
			out.Kind, out.Err = Aborted, err
			return l.record(out), fmt.Errorf("confirmation prompt: %w", err)
		}
		if !yes {
			out.Kind = Declined
			log.WithFields(retry).Info("reservation declined")
			return l.record(out), nil
		}
	}

	log.Info("reserving seat")
	res, err := l.reserver.Execute(callCtx, cand.Device, cand.Interval, l.cfg.DayStart, l.identity)
	if err != nil {
		out.Kind, out.Err = SessionExpired, err
		log.WithError(err).Error("reservation rejected the session")
		return l.record(out), err
	}
	out.Kind, out.Result = Reserved, res
	if res.Success {
		log.Info("seat reserved")
	} else {
		log.WithField("reason", res.Message).Error("reservation failed")
	}
	return l.record(out), nil
}

func (l *Loop) question(c seat.Candidate, d seat.Decision) string {
	w := l.cfg.Window
	var b strings.Builder
	fmt.Fprintf(&b, "Seat %s is ", c.Device.DisplayName)
	if d.FullCoverage {
		fmt.Fprintf(&b, "free for the whole %s-%s window. ", seat.FormatClock(w.Start), seat.FormatClock(w.End))
	} else {
		fmt.Fprintf(&b, "partly free between %s and %s, longest span %s-%s. ",
			seat.FormatClock(w.Start), seat.FormatClock(w.End), seat.FormatClock(c.Interval.Start), seat.FormatClock(c.Interval.End))
	}
	if !d.LeadOK {
		fmt.Fprintf(&b, "It starts in less than %d minutes. ", int(l.cfg.Constraints.AutoConfirmDelta/time.Minute))
	}
	b.WriteString("Reserve it? (Y/n): ")
	return b.String()
}
