package dashboard

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Styles
var (
	styleTitle    = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleArmed    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorWhite)
	styleDisarmed = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	styleWarning  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const highlight = ">> "

func (d *Dashboard) draw() {
	d.screen.Clear()
	w, _ := d.screen.Size()

	drawText(d.screen, 1, 1, styleTitle, "MC Tools")
	drawText(d.screen, 1, 2, styleText, fmt.Sprintf("Version %s - (Q to quit)", d.opts.Version))

	rowStyle := styleDisarmed
	if d.snap.Armed {
		rowStyle = styleArmed
	}
	selected := d.ctrl.Selected()
	for i, label := range d.labels() {
		y := 4 + i
		style := rowStyle
		prefix := "   "
		if Item(i) == selected {
			style = rowStyle.Foreground(tcell.ColorYellow)
			prefix = highlight
		}
		fill(d.screen, 1, y, w-2, style)
		drawText(d.screen, 1, y, style, prefix+label)
	}

	y := 4 + itemCount + 1
	if d.snap.Range.Inverted() {
		drawText(d.screen, 1, y, styleWarning, "Min key is above max key: nothing will be pressed")
	}
	y++
	if d.status != "" {
		style := styleText
		if d.statusErr {
			style = styleError
		}
		drawText(d.screen, 1, y, style, d.status)
	}

	help := "Tab/Up/Down select  Left/Right change  Enter confirm"
	if d.opts.Hint != "" {
		help += "  " + d.opts.Hint
	}
	drawText(d.screen, 1, y+2, styleHelp, help)
}

func (d *Dashboard) labels() []string {
	return []string{
		fmt.Sprintf("Enabled: %t", d.snap.Armed),
		fmt.Sprintf("Min Key: %d", d.snap.Range.Min),
		fmt.Sprintf("Max Key: %d", d.snap.Range.Max),
		"Save to File",
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
