package dashboard

import (
	"errors"
	"testing"

	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	saved []state.Range
	err   error
}

func (f *fakeSaver) Save(r state.Range) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func newController(r state.Range) (*Controller, *state.State, *fakeSaver) {
	st := state.New(r)
	saver := &fakeSaver{}
	return NewController(st, saver, nil), st, saver
}

func apply(t *testing.T, c *Controller, cmds ...Command) Effect {
	t.Helper()
	var eff Effect
	for _, cmd := range cmds {
		var err error
		eff, err = c.Apply(cmd)
		require.NoError(t, err)
	}
	return eff
}

func TestToggleFromArmedItemIsTheSameFlip(t *testing.T) {
	for _, cmd := range []Command{CmdConfirm, CmdIncrement, CmdDecrement} {
		c, st, _ := newController(state.Range{Min: 1, Max: 9})

		var hooked []bool
		c.OnToggle = func(armed bool) { hooked = append(hooked, armed) }

		eff := apply(t, c, cmd)
		assert.True(t, eff.Touched)
		assert.True(t, eff.Snapshot.Armed, "command %d", cmd)
		assert.True(t, st.Armed())

		apply(t, c, cmd)
		assert.False(t, st.Armed(), "second flip disarms (command %d)", cmd)
		assert.Equal(t, []bool{true, false}, hooked)
	}
}

func TestMinKeyWraps(t *testing.T) {
	c, st, _ := newController(state.Range{Min: 9, Max: 9})
	apply(t, c, CmdNext)
	require.Equal(t, ItemMinKey, c.Selected())

	eff := apply(t, c, CmdIncrement)
	assert.Equal(t, 0, eff.Snapshot.Range.Min, "9 + 1 wraps to 0")
	eff = apply(t, c, CmdDecrement)
	assert.Equal(t, 9, eff.Snapshot.Range.Min, "0 - 1 wraps to 9")
	assert.Equal(t, state.Range{Min: 9, Max: 9}, st.Range())
}

func TestMaxKeyEditsAreNotClamped(t *testing.T) {
	c, st, _ := newController(state.Range{Min: 4, Max: 4})
	apply(t, c, CmdNext, CmdNext)
	require.Equal(t, ItemMaxKey, c.Selected())

	eff := apply(t, c, CmdDecrement)
	assert.Equal(t, state.Range{Min: 4, Max: 3}, eff.Snapshot.Range)
	assert.True(t, st.Range().Inverted())
}

func TestConfirmOnKeyItemsIsNoOp(t *testing.T) {
	c, st, saver := newController(state.Range{Min: 2, Max: 5})
	for _, item := range []Item{ItemMinKey, ItemMaxKey} {
		for c.Selected() != item {
			apply(t, c, CmdNext)
		}
		eff := apply(t, c, CmdConfirm)
		assert.Equal(t, Effect{}, eff)
	}
	assert.Equal(t, state.Snapshot{Range: state.Range{Min: 2, Max: 5}}, st.Snapshot())
	assert.Empty(t, saver.saved)
}

func TestSaveItem(t *testing.T) {
	c, _, saver := newController(state.Range{Min: 2, Max: 5})
	apply(t, c, CmdPrev)
	require.Equal(t, ItemSave, c.Selected())

	assert.Equal(t, Effect{}, apply(t, c, CmdIncrement), "left/right do nothing on save")
	assert.Equal(t, Effect{}, apply(t, c, CmdDecrement))

	eff := apply(t, c, CmdConfirm)
	assert.True(t, eff.Saved)
	assert.Equal(t, []state.Range{{Min: 2, Max: 5}}, saver.saved)
}

func TestSaveFailureIsReturned(t *testing.T) {
	c, _, saver := newController(state.Range{Min: 2, Max: 5})
	saver.err = errors.New("read-only file system")
	apply(t, c, CmdPrev)

	eff, err := c.Apply(CmdConfirm)
	require.ErrorContains(t, err, "read-only file system")
	assert.False(t, eff.Saved)
}

func TestQuit(t *testing.T) {
	c, _, _ := newController(state.Range{Min: 1, Max: 9})
	assert.True(t, apply(t, c, CmdQuit).Quit)
	assert.Equal(t, Effect{}, apply(t, c, CmdNone))
}
