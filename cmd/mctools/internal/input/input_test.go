package input

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyF12      uint16 = 88
	buttonRight uint16 = 2
)

type fakeSource struct {
	events   chan Event
	startErr error
	stopped  atomic.Bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan Event)}
}

func (f *fakeSource) Start() (<-chan Event, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.events, nil
}

func (f *fakeSource) Stop() { f.stopped.Store(true) }

func (f *fakeSource) send(t *testing.T, evs ...Event) {
	t.Helper()
	for _, ev := range evs {
		select {
		case f.events <- ev:
		case <-time.After(time.Second):
			t.Fatalf("pump did not accept %v", ev)
		}
	}
}

func runListener(t *testing.T, l *Listener) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	t.Cleanup(cancelFn)
	return cancelFn, errc
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestKeyBindingIsEdgeTriggered(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	var fired atomic.Int32
	l.BindKey("toggle", keyF12, func() { fired.Add(1) })
	runListener(t, l)

	src.send(t,
		Event{Kind: KeyDown, Code: keyF12},
		Event{Kind: KeyDown, Code: keyF12}, // auto-repeat
		Event{Kind: KeyDown, Code: keyF12},
	)
	waitFor(t, func() bool { return fired.Load() == 1 }, "first press should fire")

	src.send(t,
		Event{Kind: KeyUp, Code: keyF12},
		Event{Kind: KeyDown, Code: keyF12},
	)
	waitFor(t, func() bool { return fired.Load() == 2 }, "second press should fire")
}

func TestUnboundEventsAreIgnored(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	var fired atomic.Int32
	l.BindKey("toggle", keyF12, func() { fired.Add(1) })
	runListener(t, l)

	src.send(t,
		Event{Kind: KeyDown, Code: 1},
		Event{Kind: MouseDown, Code: 1},
		Event{Kind: MouseUp, Code: 1},
	)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestButtonTracksPressAndRelease(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	sawPressed := make(chan bool, 1)
	btn := l.BindButton("trigger", buttonRight, func(b *Button) {
		sawPressed <- b.Pressed()
		<-b.Released()
	})
	require.False(t, btn.Pressed())
	runListener(t, l)

	src.send(t, Event{Kind: MouseDown, Code: buttonRight})
	select {
	case pressed := <-sawPressed:
		assert.True(t, pressed)
	case <-time.After(time.Second):
		t.Fatal("button binding did not run")
	}

	released := btn.Released()
	src.send(t, Event{Kind: MouseUp, Code: buttonRight})
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("release not observed")
	}
	assert.False(t, btn.Pressed())
}

func TestBusyButtonDoesNotBlockOtherBindings(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	var toggles atomic.Int32
	l.BindKey("toggle", keyF12, func() { toggles.Add(1) })

	running := make(chan struct{})
	finished := make(chan struct{})
	l.BindButton("trigger", buttonRight, func(b *Button) {
		close(running)
		<-b.Released()
		close(finished)
	})
	runListener(t, l)

	src.send(t, Event{Kind: MouseDown, Code: buttonRight})
	<-running

	src.send(t, Event{Kind: KeyDown, Code: keyF12})
	waitFor(t, func() bool { return toggles.Load() == 1 }, "toggle blocked behind button binding")

	src.send(t, Event{Kind: MouseUp, Code: buttonRight})
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("button binding never saw release")
	}
}

func TestBindingIsNotReentered(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	var active, maxActive, runs atomic.Int32
	gate := make(chan struct{})
	l.BindKey("slow", keyF12, func() {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		runs.Add(1)
		<-gate
		active.Add(-1)
	})
	runListener(t, l)

	src.send(t, Event{Kind: KeyDown, Code: keyF12}, Event{Kind: KeyUp, Code: keyF12})
	waitFor(t, func() bool { return runs.Load() == 1 }, "first run did not start")
	for i := 0; i < 3; i++ {
		src.send(t, Event{Kind: KeyDown, Code: keyF12}, Event{Kind: KeyUp, Code: keyF12})
	}
	close(gate)

	waitFor(t, func() bool { return runs.Load() == 2 }, "coalesced trigger did not run")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load(), "queued presses coalesce into one run")
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestPanickingBindingKeepsListenerAlive(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	var calls atomic.Int32
	l.BindKey("boom", keyF12, func() {
		calls.Add(1)
		panic("boom")
	})
	runListener(t, l)

	src.send(t, Event{Kind: KeyDown, Code: keyF12}, Event{Kind: KeyUp, Code: keyF12})
	waitFor(t, func() bool { return calls.Load() == 1 }, "binding did not run")
	src.send(t, Event{Kind: KeyDown, Code: keyF12})
	waitFor(t, func() bool { return calls.Load() == 2 }, "binding did not run after panic")
}

func TestRunStopsOnCancelAndReleasesButtons(t *testing.T) {
	src := newFakeSource()
	l := NewListener(src, nil)

	running := make(chan struct{})
	l.BindButton("trigger", buttonRight, func(b *Button) {
		close(running)
		<-b.Released()
	})
	cancel, done := runListener(t, l)

	src.send(t, Event{Kind: MouseDown, Code: buttonRight})
	<-running
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, src.stopped.Load())
}

func TestRunReportsSourceFailures(t *testing.T) {
	src := newFakeSource()
	src.startErr = errors.New("no display")
	err := NewListener(src, nil).Run(context.Background())
	require.ErrorContains(t, err, "no display")

	src = newFakeSource()
	_, done := runListener(t, NewListener(src, nil))
	close(src.events)
	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrSourceClosed)
	case <-time.After(time.Second):
		t.Fatal("Run did not notice closed source")
	}
}
