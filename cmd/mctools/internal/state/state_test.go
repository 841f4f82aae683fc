package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValidity(t *testing.T) {
	tests := []struct {
		r        Range
		valid    bool
		inverted bool
	}{
		{Range{1, 9}, true, false},
		{Range{0, 0}, true, false},
		{Range{9, 0}, true, true},
		{Range{-1, 5}, false, false},
		{Range{3, 10}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.r.Valid())
			assert.Equal(t, tt.inverted, tt.r.Inverted())
		})
	}
}

func TestStepWraps(t *testing.T) {
	s := New(Range{Min: 9, Max: 0})

	require.Equal(t, 0, s.StepMin(1), "min 9+1 wraps to 0")
	require.Equal(t, 9, s.StepMin(-1), "min 0-1 wraps to 9")
	require.Equal(t, 9, s.StepMax(-1), "max 0-1 wraps to 9")
	require.Equal(t, 0, s.StepMax(1), "max 9+1 wraps to 0")
}

func TestStepDoesNotKeepOrder(t *testing.T) {
	s := New(Range{Min: 5, Max: 5})
	s.StepMin(1)
	r := s.Range()
	assert.Equal(t, Range{Min: 6, Max: 5}, r)
	assert.True(t, r.Inverted())
}

func TestToggle(t *testing.T) {
	s := New(Range{1, 9})
	require.False(t, s.Armed())
	require.True(t, s.Toggle())
	require.False(t, s.Toggle())

	s.SetArmed(true)
	s.SetArmed(true)
	require.True(t, s.Snapshot().Armed)
}

func TestSessionChannelClosesOnDisarm(t *testing.T) {
	s := New(Range{1, 9})

	snap, done := s.Session()
	require.False(t, snap.Armed)
	select {
	case <-done:
	default:
		t.Fatal("disarmed session channel should already be closed")
	}

	s.SetArmed(true)
	snap, done = s.Session()
	require.True(t, snap.Armed)
	select {
	case <-done:
		t.Fatal("armed session channel closed early")
	default:
	}

	s.Toggle()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session channel not closed after disarm")
	}
}

func TestUpdateReturnsPostEditSnapshot(t *testing.T) {
	s := New(Range{1, 9})
	snap := s.Update(func(e *Editor) {
		e.Toggle()
		e.StepMin(2)
		e.StepMax(1)
	})
	assert.Equal(t, Snapshot{Armed: true, Range: Range{Min: 3, Max: 0}}, snap)
	assert.Equal(t, snap, s.Snapshot())
}

func TestHoldBlocksOtherAccess(t *testing.T) {
	s := New(Range{1, 9})
	s.SetArmed(true)

	entered := make(chan struct{})
	release := make(chan struct{})
	go s.Hold(func(Snapshot) {
		close(entered)
		<-release
	})
	<-entered

	toggled := make(chan bool)
	go func() { toggled <- s.Toggle() }()

	select {
	case <-toggled:
		t.Fatal("toggle completed while state was held")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case armed := <-toggled:
		assert.False(t, armed)
	case <-time.After(time.Second):
		t.Fatal("toggle did not complete after hold was released")
	}
}

func TestConcurrentEdits(t *testing.T) {
	s := New(Range{0, 0})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.StepMin(1)
		}()
		go func() {
			defer wg.Done()
			s.Toggle()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Range.Min, "100 increments wrap back to 0")
	assert.False(t, snap.Armed, "even number of toggles")
}
