// Package input dispatches global keyboard and mouse events to bindings.
//
// A Listener pumps events from a Source on one goroutine and runs every
// binding on a goroutine of its own. A binding is never re-entered while its
// callback is still running, but a long callback on one binding does not
// stop the pump or delay any other binding.
package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Kind is the type of an input event.
type Kind uint8

const (
	KeyDown Kind = iota + 1
	KeyUp
	MouseDown
	MouseUp
)

func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case MouseDown:
		return "mouse-down"
	case MouseUp:
		return "mouse-up"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is a single press or release. Code is a key code for key events and
// a button number for mouse events.
type Event struct {
	Kind Kind
	Code uint16
}

// Source is the host's global input hook.
type Source interface {
	// Start begins capturing events system wide. The channel is closed when
	// the hook stops.
	Start() (<-chan Event, error)
	Stop()
}

var (
	ErrUnknownKey    = errors.New("input: unknown key")
	ErrUnknownButton = errors.New("input: unknown mouse button")
	ErrSourceClosed  = errors.New("input: event source closed")
)

type binding struct {
	name    string
	trigger chan struct{}
	fn      func()
}

// fire queues one run of the binding. A trigger that arrives while one is
// already queued is coalesced into it.
func (b *binding) fire() bool {
	select {
	case b.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (b *binding) dispatch(ctx context.Context, lg *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.trigger:
			b.invoke(lg)
		}
	}
}

func (b *binding) invoke(lg *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			lg.Error("binding panicked", "binding", b.name, "panic", r)
		}
	}()
	b.fn()
}

type buttonBinding struct {
	*binding
	btn *Button
}

// Listener routes events from a Source to key and button bindings.
type Listener struct {
	src Source
	lg  *slog.Logger

	keys    map[uint16]*binding
	keyDown map[uint16]bool
	buttons map[uint16]*buttonBinding
}

func NewListener(src Source, lg *slog.Logger) *Listener {
	if lg == nil {
		lg = slog.Default()
	}
	return &Listener{
		src:     src,
		lg:      lg.With("component", "input"),
		keys:    make(map[uint16]*binding),
		keyDown: make(map[uint16]bool),
		buttons: make(map[uint16]*buttonBinding),
	}
}

// BindKey runs fn each time the key goes down. Auto-repeat while the key is
// held does not fire again. Bindings must be registered before Run.
func (l *Listener) BindKey(name string, code uint16, fn func()) {
	l.keys[code] = &binding{name: name, trigger: make(chan struct{}, 1), fn: fn}
}

// BindButton runs fn each time the mouse button goes down. fn receives the
// live state of the button so it can keep working until release.
func (l *Listener) BindButton(name string, code uint16, fn func(*Button)) *Button {
	btn := newButton()
	l.buttons[code] = &buttonBinding{
		binding: &binding{name: name, trigger: make(chan struct{}, 1), fn: func() { fn(btn) }},
		btn:     btn,
	}
	return btn
}

// Run starts the source and pumps its events until ctx is done or the
// source closes. Bindings still running when Run returns see their buttons
// released and are waited for.
func (l *Listener) Run(ctx context.Context) error {
	events, err := l.src.Start()
	if err != nil {
		return fmt.Errorf("start input hook: %w", err)
	}
	defer l.src.Stop()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	for _, b := range l.keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.dispatch(ctx, l.lg)
		}()
	}
	for _, b := range l.buttons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.dispatch(ctx, l.lg)
		}()
	}
	defer func() {
		cancel()
		for _, b := range l.buttons {
			b.btn.release()
		}
		wg.Wait()
	}()

	l.lg.Info("input hook started", "keys", len(l.keys), "buttons", len(l.buttons))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return ErrSourceClosed
			}
			l.handle(ev)
		}
	}
}

func (l *Listener) handle(ev Event) {
	switch ev.Kind {
	case KeyDown:
		if l.keyDown[ev.Code] {
			return
		}
		l.keyDown[ev.Code] = true
		if b, ok := l.keys[ev.Code]; ok {
			l.trigger(b)
		}
	case KeyUp:
		l.keyDown[ev.Code] = false
	case MouseDown:
		if b, ok := l.buttons[ev.Code]; ok && b.btn.press() {
			l.trigger(b.binding)
		}
	case MouseUp:
		if b, ok := l.buttons[ev.Code]; ok {
			b.btn.release()
		}
	}
}

func (l *Listener) trigger(b *binding) {
	if !b.fire() {
		l.lg.Debug("binding busy, trigger coalesced", "binding", b.name)
	}
}

// Button is the live pressed state of a bound mouse button.
type Button struct {
	mu       sync.Mutex
	pressed  bool
	released chan struct{}
}

func newButton() *Button {
	c := make(chan struct{})
	close(c)
	return &Button{released: c}
}

// Pressed reports whether the button is physically held right now.
func (b *Button) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

// Released returns a channel that is closed when the current press ends.
// While the button is up the channel is already closed.
func (b *Button) Released() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

func (b *Button) press() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pressed {
		return false
	}
	b.pressed = true
	b.released = make(chan struct{})
	return true
}

func (b *Button) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pressed {
		return
	}
	b.pressed = false
	close(b.released)
}
