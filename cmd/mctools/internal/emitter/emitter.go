// Package emitter presses random number keys while the trigger button is
// held and automation is armed.
package emitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
)

// DefaultInterval is the pause after each key press.
const DefaultInterval = 250 * time.Millisecond

var ErrInvertedRange = errors.New("emitter: min key is greater than max key")

// Mode controls how a session holds the shared state.
type Mode int

const (
	// ModeSnapshot copies the state, releases it at once and ends the
	// session on release, disarm or cancellation.
	ModeSnapshot Mode = iota
	// ModeExclusive holds the shared state for the whole session. Other
	// readers and writers, toggles included, wait until the button is
	// released.
	ModeExclusive
)

func (m Mode) String() string {
	switch m {
	case ModeSnapshot:
		return "snapshot"
	case ModeExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "snapshot" or "exclusive".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "snapshot", "":
		return ModeSnapshot, nil
	case "exclusive":
		return ModeExclusive, nil
	default:
		return 0, fmt.Errorf("emitter: unknown lock mode %q", s)
	}
}

// Keyboard emits synthetic key presses.
type Keyboard interface {
	Tap(key string) error
}

// Button is the live state of the trigger button.
type Button interface {
	Pressed() bool
	Released() <-chan struct{}
}

// Outcome says why a session ended.
type Outcome int

const (
	OutcomeReleased Outcome = iota
	OutcomeNotArmed
	OutcomeDisarmed
	OutcomeInverted
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReleased:
		return "released"
	case OutcomeNotArmed:
		return "not-armed"
	case OutcomeDisarmed:
		return "disarmed"
	case OutcomeInverted:
		return "inverted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result summarizes one session.
type Result struct {
	Taps    int
	Outcome Outcome
}

type Options struct {
	Interval time.Duration
	Mode     Mode
	// Rand draws keys; a time-seeded source is used when nil.
	Rand *rand.Rand
}

// Emitter runs automation sessions against a shared State.
type Emitter struct {
	st       *state.State
	kb       Keyboard
	interval time.Duration
	mode     Mode
	rng      *rand.Rand
	lg       *slog.Logger
}

func New(st *state.State, kb Keyboard, opts Options, lg *slog.Logger) *Emitter {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Rand == nil {
		now := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(now, now>>32))
	}
	if lg == nil {
		lg = slog.Default()
	}
	return &Emitter{
		st:       st,
		kb:       kb,
		interval: opts.Interval,
		mode:     opts.Mode,
		rng:      opts.Rand,
		lg:       lg.With("component", "emitter", "mode", opts.Mode.String()),
	}
}

// Run presses keys until btn is released. It is meant to be called from
// the trigger button's binding, once per press. Armed and the range are
// read once when the session starts.
//
// Only one Run may be active at a time; the input listener guarantees this
// by never re-entering a binding.
func (e *Emitter) Run(ctx context.Context, btn Button) (Result, error) {
	var (
		res Result
		err error
	)
	switch e.mode {
	case ModeExclusive:
		e.st.Hold(func(snap state.Snapshot) {
			res, err = e.session(ctx, btn, snap, nil)
		})
	default:
		snap, disarmed := e.st.Session()
		res, err = e.session(ctx, btn, snap, disarmed)
	}

	e.lg.Debug("session finished", "taps", res.Taps, "outcome", res.Outcome.String())
	return res, err
}

// session is the emit loop. A nil disarmed channel never fires, so in
// exclusive mode only release or ctx end the session.
func (e *Emitter) session(ctx context.Context, btn Button, snap state.Snapshot, disarmed <-chan struct{}) (Result, error) {
	var res Result
	if !snap.Armed {
		res.Outcome = OutcomeNotArmed
		return res, nil
	}
	if snap.Range.Inverted() {
		e.lg.Warn("key range is inverted, nothing to press", "range", snap.Range)
		res.Outcome = OutcomeInverted
		return res, nil
	}

	released := btn.Released()
	timer := time.NewTimer(e.interval)
	defer timer.Stop()

	for btn.Pressed() {
		digit, err := Pick(e.rng, snap.Range)
		if err != nil {
			res.Outcome = OutcomeFailed
			return res, err
		}
		if err := e.kb.Tap(strconv.Itoa(digit)); err != nil {
			res.Outcome = OutcomeFailed
			return res, fmt.Errorf("tap %d: %w", digit, err)
		}
		res.Taps++

		timer.Reset(e.interval)
		select {
		case <-ctx.Done():
			res.Outcome = OutcomeCancelled
			return res, nil
		case <-released:
			res.Outcome = OutcomeReleased
			return res, nil
		case <-disarmed:
			res.Outcome = OutcomeDisarmed
			return res, nil
		case <-timer.C:
		}
	}

	res.Outcome = OutcomeReleased
	return res, nil
}

// Pick draws a digit uniformly from r, both bounds included.
func Pick(rng *rand.Rand, r state.Range) (int, error) {
	if r.Inverted() {
		return 0, fmt.Errorf("%w: %v", ErrInvertedRange, r)
	}
	return r.Min + rng.IntN(r.Max-r.Min+1), nil
}
