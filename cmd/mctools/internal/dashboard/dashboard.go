// Package dashboard is the terminal control surface: it shows the armed
// flag and key range and lets the user edit and save them.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
)

const (
	DefaultPoll    = 16 * time.Millisecond
	DefaultRefresh = time.Second
)

type Options struct {
	// Poll is the longest the loop waits for a terminal event before
	// drawing again.
	Poll time.Duration
	// Refresh is the minimum time between two reads of the shared state
	// made only for display.
	Refresh time.Duration
	Version string
	// Hint describes the global bindings in the help line.
	Hint string
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Dashboard runs the foreground control loop.
type Dashboard struct {
	screen tcell.Screen
	st     *state.State
	ctrl   *Controller
	opts   Options
	lg     *slog.Logger

	snap        state.Snapshot
	refreshedAt time.Time
	status      string
	statusErr   bool
}

func New(screen tcell.Screen, st *state.State, ctrl *Controller, opts Options, lg *slog.Logger) *Dashboard {
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if lg == nil {
		lg = slog.Default()
	}
	return &Dashboard{
		screen: screen,
		st:     st,
		ctrl:   ctrl,
		opts:   opts,
		lg:     lg.With("component", "dashboard"),
	}
}

// Run draws and handles keys until the user quits or ctx is done. The
// screen must already be initialized; Run does not finalize it.
func (d *Dashboard) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go d.screen.ChannelEvents(events, quit)
	defer close(quit)

	d.snap = d.st.Snapshot()
	d.refreshedAt = d.opts.Now()

	ticker := time.NewTicker(d.opts.Poll)
	defer ticker.Stop()

	for {
		d.refresh()
		d.draw()
		d.screen.Show()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				d.screen.Sync()
			case *tcell.EventKey:
				done, err := d.handleKey(ev)
				if err != nil {
					// Leave the failure on screen for the last frame.
					d.draw()
					d.screen.Show()
					return err
				}
				if done {
					return nil
				}
			}
		}
	}
}

// refresh re-reads the shared state when the display copy is older than
// the refresh interval.
func (d *Dashboard) refresh() {
	now := d.opts.Now()
	if now.Sub(d.refreshedAt) < d.opts.Refresh {
		return
	}
	d.snap = d.st.Snapshot()
	d.refreshedAt = now
}

func (d *Dashboard) handleKey(ev *tcell.EventKey) (bool, error) {
	eff, err := d.ctrl.Apply(CommandFor(ev))
	if eff.Touched {
		// Same acquisition as the edit, so no extra read of shared state.
		d.snap = eff.Snapshot
	}
	if err != nil {
		d.lg.Error("command failed", "err", err)
		d.setStatus(err.Error(), true)
		return false, err
	}
	if eff.Saved {
		d.setStatus(fmt.Sprintf("Saved %v", eff.Snapshot.Range), false)
	}
	return eff.Quit, nil
}

func (d *Dashboard) setStatus(msg string, isErr bool) {
	d.status = msg
	d.statusErr = isErr
}
