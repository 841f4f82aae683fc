// Package uiohook translates libuiohook events, as delivered by gohook, into
// input events. It holds libuiohook's event numbering and virtual key codes
// so the mapping builds and tests without cgo.
package uiohook

import (
	"fmt"
	"strings"

	"github.com/jasonlovesdoggo/mctools/cmd/mctools/internal/input"
)

// libuiohook event types. gohook renames them: KeyTyped is its KeyDown,
// KeyPressed its KeyHold, KeyReleased its KeyUp, MouseClicked its MouseUp,
// MousePressed its MouseHold and MouseReleased its MouseDown.
const (
	KeyTyped      uint8 = 3
	KeyPressed    uint8 = 4
	KeyReleased   uint8 = 5
	MouseClicked  uint8 = 6
	MousePressed  uint8 = 7
	MouseReleased uint8 = 8
	MouseMoved    uint8 = 9
	MouseDragged  uint8 = 10
	MouseWheel    uint8 = 11
)

// Translate maps a hook event to a press or release. Typed and clicked
// events are synthesized by libuiohook after the real press or release (a
// click only when the pointer did not move), so they are dropped along with
// motion and wheel events.
func Translate(kind uint8, keycode, button uint16) (input.Event, bool) {
	switch kind {
	case KeyPressed:
		return input.Event{Kind: input.KeyDown, Code: keycode}, true
	case KeyReleased:
		return input.Event{Kind: input.KeyUp, Code: keycode}, true
	case MousePressed:
		return input.Event{Kind: input.MouseDown, Code: button}, true
	case MouseReleased:
		return input.Event{Kind: input.MouseUp, Code: button}, true
	default:
		return input.Event{}, false
	}
}

// KeyCode resolves a key name such as "f12" to its libuiohook virtual code.
func KeyCode(name string) (uint16, error) {
	code, ok := keyCodes[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", input.ErrUnknownKey, name)
	}
	return code, nil
}

// ButtonCode resolves a mouse button name such as "right" to its libuiohook
// button number.
func ButtonCode(name string) (uint16, error) {
	code, ok := buttonCodes[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", input.ErrUnknownButton, name)
	}
	return code, nil
}

var buttonCodes = map[string]uint16{
	"left":   1,
	"right":  2,
	"center": 3,
	"middle": 3,
	"x1":     4,
	"x2":     5,
}

// keyCodes follows the VC_ constants in libuiohook's uiohook.h.
var keyCodes = map[string]uint16{
	"escape":       0x0001,
	"f1":           0x003b,
	"f2":           0x003c,
	"f3":           0x003d,
	"f4":           0x003e,
	"f5":           0x003f,
	"f6":           0x0040,
	"f7":           0x0041,
	"f8":           0x0042,
	"f9":           0x0043,
	"f10":          0x0044,
	"f11":          0x0057,
	"f12":          0x0058,
	"f13":          0x005b,
	"f14":          0x005c,
	"f15":          0x005d,
	"f16":          0x0063,
	"f17":          0x0064,
	"f18":          0x0065,
	"f19":          0x0066,
	"f20":          0x0067,
	"f21":          0x0068,
	"f22":          0x0069,
	"f23":          0x006a,
	"f24":          0x006b,
	"backquote":    0x0029,
	"1":            0x0002,
	"2":            0x0003,
	"3":            0x0004,
	"4":            0x0005,
	"5":            0x0006,
	"6":            0x0007,
	"7":            0x0008,
	"8":            0x0009,
	"9":            0x000a,
	"0":            0x000b,
	"minus":        0x000c,
	"equals":       0x000d,
	"backspace":    0x000e,
	"tab":          0x000f,
	"capslock":     0x003a,
	"a":            0x001e,
	"b":            0x0030,
	"c":            0x002e,
	"d":            0x0020,
	"e":            0x0012,
	"f":            0x0021,
	"g":            0x0022,
	"h":            0x0023,
	"i":            0x0017,
	"j":            0x0024,
	"k":            0x0025,
	"l":            0x0026,
	"m":            0x0032,
	"n":            0x0031,
	"o":            0x0018,
	"p":            0x0019,
	"q":            0x0010,
	"r":            0x0013,
	"s":            0x001f,
	"t":            0x0014,
	"u":            0x0016,
	"v":            0x002f,
	"w":            0x0011,
	"x":            0x002d,
	"y":            0x0015,
	"z":            0x002c,
	"openbracket":  0x001a,
	"closebracket": 0x001b,
	"backslash":    0x002b,
	"semicolon":    0x0027,
	"quote":        0x0028,
	"enter":        0x001c,
	"comma":        0x0033,
	"period":       0x0034,
	"slash":        0x0035,
	"space":        0x0039,
	"printscreen":  0x0e37,
	"scrolllock":   0x0046,
	"pause":        0x0e45,
	"insert":       0x0e52,
	"delete":       0x0e53,
	"home":         0x0e47,
	"end":          0x0e4f,
	"pageup":       0x0e49,
	"pagedown":     0x0e51,
	"up":           0xe048,
	"left":         0xe04b,
	"clear":        0xe04c,
	"right":        0xe04d,
	"down":         0xe050,
	"numlock":      0x0045,
	"kpdivide":     0x0e35,
	"kpmultiply":   0x0037,
	"kpsubtract":   0x004a,
	"kpequals":     0x0e0d,
	"kpadd":        0x004e,
	"kpenter":      0x0e1c,
	"kpseparator":  0x0053,
	"kp1":          0x004f,
	"kp2":          0x0050,
	"kp3":          0x0051,
	"kp4":          0x004b,
	"kp5":          0x004c,
	"kp6":          0x004d,
	"kp7":          0x0047,
	"kp8":          0x0048,
	"kp9":          0x0049,
	"kp0":          0x0052,
	"contextmenu":  0x0e5d,
	"kpcomma":      0x007e,

	"esc":    0x0001,
	"return": 0x001c,
	"lshift": 0x002a,
	"rshift": 0x0036,
	"lctrl":  0x001d,
	"rctrl":  0x0e1d,
	"lalt":   0x0038,
	"ralt":   0x0e38,
	"lcmd":   0x0e5b,
	"rcmd":   0x0e5c,
}
