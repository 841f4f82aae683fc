package dashboard

import "github.com/gdamore/tcell/v2"

// Item is a row of the dashboard menu.
type Item int

const (
	ItemArmed Item = iota
	ItemMinKey
	ItemMaxKey
	ItemSave

	itemCount = 4
)

// Menu is a cursor over the menu rows that wraps at both ends.
type Menu struct {
	cursor int
}

func (m *Menu) Selected() Item { return Item(m.cursor) }

func (m *Menu) Next() Item {
	m.cursor = (m.cursor + 1) % itemCount
	return m.Selected()
}

func (m *Menu) Prev() Item {
	m.cursor = (m.cursor + itemCount - 1) % itemCount
	return m.Selected()
}

// Command is a user action decoded from a terminal key.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdNext
	CmdPrev
	CmdDecrement
	CmdIncrement
	CmdConfirm
)

// CommandFor maps a key event to a Command.
func CommandFor(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return CmdQuit
	case tcell.KeyTab, tcell.KeyDown:
		return CmdNext
	case tcell.KeyBacktab, tcell.KeyUp:
		return CmdPrev
	case tcell.KeyLeft:
		return CmdDecrement
	case tcell.KeyRight:
		return CmdIncrement
	case tcell.KeyEnter:
		return CmdConfirm
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return CmdQuit
		}
	}
	return CmdNone
}
