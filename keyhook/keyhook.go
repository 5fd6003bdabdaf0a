// Package keyhook observes system-wide key presses, independent of which
// window has focus.
package keyhook

import "time"

// Event is one physical key-down. Keycode is the set-1 scancode shared by
// evdev and libuiohook; the rest is raw OS metadata.
type Event struct {
	Keycode int
	Rawcode int
	Time    time.Time
	Device  string
	Repeat  bool
}

// Hook delivers key-downs in OS order on Events until Unregister.
type Hook interface {
	Register() error
	Unregister()
	Events() <-chan Event
	Name() string
}

const eventBuffer = 256

// ForwardRepeats is the default for New: auto-repeat key-downs are
// delivered like presses, so a held key keeps triggering.
const ForwardRepeats = true
