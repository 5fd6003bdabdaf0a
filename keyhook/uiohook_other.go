//go:build !linux

package keyhook

import (
	"sync"

	hook "github.com/robotn/gohook"

	"keybeat/log"
)

// uioHook wraps libuiohook through gohook (Cocoa event tap / Win32 LL hook).
type uioHook struct {
	events chan Event
	repeat bool
	stop   chan struct{}
	once   sync.Once
}

func New(repeat bool) Hook {
	return &uioHook{
		events: make(chan Event, eventBuffer),
		repeat: repeat,
		stop:   make(chan struct{}),
	}
}

func (h *uioHook) Name() string { return "uiohook" }

func (h *uioHook) Register() error {
	src := hook.Start()
	go h.forward(src)
	log.HookStart(h.Name(), 0)
	return nil
}

func (h *uioHook) forward(src chan hook.Event) {
	held := newHeldKeys(h.repeat)
	for {
		var ev hook.Event
		var ok bool
		select {
		case <-h.stop:
			return
		case ev, ok = <-src:
			if !ok {
				return
			}
		}

		switch ev.Kind {
		case hook.KeyHold:
			// libuiohook reports auto-repeat as further presses of a held key.
			repeat, deliver := held.press(ev.Keycode)
			if !deliver {
				continue
			}
			select {
			case h.events <- Event{
				Keycode: int(ev.Keycode),
				Rawcode: int(ev.Rawcode),
				Time:    ev.When,
				Device:  "uiohook",
				Repeat:  repeat,
			}:
			case <-h.stop:
				return
			}
		case hook.KeyUp:
			held.release(ev.Keycode)
		}
	}
}

func (h *uioHook) Unregister() {
	h.once.Do(func() {
		close(h.stop)
		hook.End()
	})
}

func (h *uioHook) Events() <-chan Event {
	return h.events
}

// Diagnose reports the hook backend. Accessibility permission on macOS can
// only be verified by pressing a key.
func Diagnose() (string, error) {
	return "global key hook available (libuiohook)", nil
}
