// Package state holds the automation state shared between the global input
// hooks and the dashboard.
package state

import (
	"fmt"
	"sync"
)

// Digit bounds for a Range. Each bound maps to a single number-row key.
const (
	MinDigit = 0
	MaxDigit = 9
)

// Range is the inclusive span of digits the emitter draws from.
//
// Min <= Max is not enforced: edits wrap each bound independently, so an
// inverted range is reachable and is handled by the emitter.
type Range struct {
	Min int
	Max int
}

// Valid reports whether both bounds are single digits.
func (r Range) Valid() bool {
	return r.Min >= MinDigit && r.Min <= MaxDigit && r.Max >= MinDigit && r.Max <= MaxDigit
}

// Inverted reports whether Min is greater than Max.
func (r Range) Inverted() bool {
	return r.Min > r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// Snapshot is a point-in-time copy of the shared state.
type Snapshot struct {
	Armed bool
	Range Range
}

// State is the single shared owner of the automation state. Every read and
// write takes the same mutex; there is no reader/writer split.
type State struct {
	mu    sync.Mutex
	armed bool
	rng   Range

	// disarmed is closed whenever armed goes false and replaced when it goes
	// true again, so sessions can wait on it without holding mu.
	disarmed chan struct{}
}

// New returns a disarmed State holding r.
func New(r Range) *State {
	d := make(chan struct{})
	close(d)
	return &State{rng: r, disarmed: d}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{Armed: s.armed, Range: s.rng}
}

// Armed reports the current armed flag.
func (s *State) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Toggle flips armed and returns the new value.
func (s *State) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setArmedLocked(!s.armed)
	return s.armed
}

func (s *State) SetArmed(armed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setArmedLocked(armed)
}

func (s *State) setArmedLocked(armed bool) {
	if armed == s.armed {
		return
	}
	s.armed = armed
	if armed {
		s.disarmed = make(chan struct{})
	} else {
		close(s.disarmed)
	}
}

// StepMin moves the lower bound by delta, wrapping through 0-9, and returns
// the new value.
func (s *State) StepMin(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Min = wrapDigit(s.rng.Min + delta)
	return s.rng.Min
}

// StepMax moves the upper bound by delta, wrapping through 0-9, and returns
// the new value.
func (s *State) StepMax(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Max = wrapDigit(s.rng.Max + delta)
	return s.rng.Max
}

func (s *State) Range() Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng
}

func (s *State) SetRange(r Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = r
}

// Update runs fn with the lock held and returns the resulting snapshot.
// fn may mutate the state through the Editor it is given.
func (s *State) Update(fn func(e *Editor)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&Editor{s: s})
	return s.snapshotLocked()
}

// Hold runs fn with exclusive access for fn's entire duration. Any other
// caller blocks until fn returns.
func (s *State) Hold(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshotLocked())
}

// Session returns a snapshot together with a channel that is closed the
// next time armed becomes false. If the snapshot is disarmed the channel is
// already closed.
func (s *State) Session() (Snapshot, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), s.disarmed
}

// Editor mutates a State whose lock is already held by Update.
type Editor struct {
	s *State
}

func (e *Editor) Toggle() bool {
	e.s.setArmedLocked(!e.s.armed)
	return e.s.armed
}

func (e *Editor) StepMin(delta int) int {
	e.s.rng.Min = wrapDigit(e.s.rng.Min + delta)
	return e.s.rng.Min
}

func (e *Editor) StepMax(delta int) int {
	e.s.rng.Max = wrapDigit(e.s.rng.Max + delta)
	return e.s.rng.Max
}

func (e *Editor) Range() Range {
	return e.s.rng
}

func wrapDigit(v int) int {
	n := MaxDigit - MinDigit + 1
	return ((v-MinDigit)%n+n)%n + MinDigit
}
