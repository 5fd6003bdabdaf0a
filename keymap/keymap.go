// Package keymap holds the fixed scancode table used for on-screen labels.
package keymap

import "strconv"

// Scancodes with a fixed role in the sound bank.
const (
	Backspace = 14
	Enter     = 28
	Space     = 57
)

// QWERTY layout, set-1 scancodes. Evdev key codes and libuiohook virtual
// codes share these values.
var labels = map[int]string{
	// top letter row
	16: "Q", 17: "W", 18: "E", 19: "R", 20: "T", 21: "Y", 22: "U", 23: "I", 24: "O", 25: "P",
	// home row
	30: "A", 31: "S", 32: "D", 33: "F", 34: "G", 35: "H", 36: "J", 37: "K", 38: "L",
	// bottom row
	44: "Z", 45: "X", 46: "C", 47: "V", 48: "B", 49: "N", 50: "M",

	Space:     "Space",
	Enter:     "Enter",
	Backspace: "Backspace",
}

// Label returns the display label for code, falling back to "UNKNOWN: <code>".
func Label(code int) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return "UNKNOWN: " + strconv.Itoa(code)
}
