// Package native connects the input package to the host: global hooks come
// from gohook (libuiohook) and synthetic key presses from robotgo.
package native

import (
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/input"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/input/uiohook"
	hook "github.com/robotn/gohook"
)

// The build fails if gohook's event numbering stops matching libuiohook's.
var (
	_ [0]struct{} = [hook.KeyHold - uiohook.KeyPressed]struct{}{}
	_ [0]struct{} = [hook.KeyUp - uiohook.KeyReleased]struct{}{}
	_ [0]struct{} = [hook.MouseHold - uiohook.MousePressed]struct{}{}
	_ [0]struct{} = [hook.MouseDown - uiohook.MouseReleased]struct{}{}
)

// Source is the system-wide hook. Only one may run per process.
type Source struct {
	mu   sync.Mutex
	done chan struct{}
}

func NewSource() *Source {
	return &Source{}
}

// Start begins the libuiohook event loop and translates its events.
func (s *Source) Start() (<-chan input.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return nil, fmt.Errorf("native: hook already started")
	}

	raw := hook.Start()
	out := make(chan input.Event, 64)
	s.done = make(chan struct{})
	done := s.done

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				tev, ok := uiohook.Translate(ev.Kind, ev.Keycode, ev.Button)
				if !ok {
					continue
				}
				select {
				case out <- tev:
				case <-done:
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}
	close(s.done)
	s.done = nil
	hook.End()
}

// Keyboard taps keys through robotgo.
type Keyboard struct{}

func (Keyboard) Tap(key string) error {
	return robotgo.KeyTap(key)
}
