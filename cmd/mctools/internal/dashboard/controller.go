package dashboard

import (
	"fmt"
	"log/slog"

	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
)

// Saver persists the key range.
type Saver interface {
	Save(state.Range) error
}

// Effect is what a command did.
type Effect struct {
	// Snapshot is the shared state as of the command's own acquisition.
	// It is only set when Touched is true.
	Snapshot state.Snapshot
	Touched  bool
	Saved    bool
	Quit     bool
}

// Controller applies menu commands to the shared state.
type Controller struct {
	st    *state.State
	saver Saver
	menu  Menu
	lg    *slog.Logger

	// OnToggle, when set, is called after the menu flips armed.
	OnToggle func(armed bool)
}

func NewController(st *state.State, saver Saver, lg *slog.Logger) *Controller {
	if lg == nil {
		lg = slog.Default()
	}
	return &Controller{st: st, saver: saver, lg: lg.With("component", "dashboard")}
}

func (c *Controller) Selected() Item { return c.menu.Selected() }

// Apply runs cmd against the selected item. A save failure is returned as
// an error; nothing else fails.
func (c *Controller) Apply(cmd Command) (Effect, error) {
	switch cmd {
	case CmdQuit:
		return Effect{Quit: true}, nil
	case CmdNext:
		c.menu.Next()
	case CmdPrev:
		c.menu.Prev()
	case CmdDecrement:
		return c.step(-1), nil
	case CmdIncrement:
		return c.step(1), nil
	case CmdConfirm:
		return c.confirm()
	}
	return Effect{}, nil
}

func (c *Controller) step(delta int) Effect {
	item := c.menu.Selected()
	if item == ItemSave {
		return Effect{}
	}

	toggled := false
	var armed bool
	snap := c.st.Update(func(e *state.Editor) {
		switch item {
		case ItemArmed:
			armed = e.Toggle()
			toggled = true
		case ItemMinKey:
			e.StepMin(delta)
		case ItemMaxKey:
			e.StepMax(delta)
		}
	})
	if toggled {
		c.toggled(armed)
	}
	return Effect{Snapshot: snap, Touched: true}
}

func (c *Controller) confirm() (Effect, error) {
	switch c.menu.Selected() {
	case ItemArmed:
		var armed bool
		snap := c.st.Update(func(e *state.Editor) { armed = e.Toggle() })
		c.toggled(armed)
		return Effect{Snapshot: snap, Touched: true}, nil
	case ItemSave:
		snap := c.st.Snapshot()
		if err := c.saver.Save(snap.Range); err != nil {
			return Effect{Snapshot: snap, Touched: true}, fmt.Errorf("save config: %w", err)
		}
		return Effect{Snapshot: snap, Touched: true, Saved: true}, nil
	}
	return Effect{}, nil
}

func (c *Controller) toggled(armed bool) {
	c.lg.Info("armed toggled from menu", "armed", armed)
	if c.OnToggle != nil {
		c.OnToggle(armed)
	}
}
