//go:build linux

package shortcut

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"keybeat/keyhook"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
	keyLCtrl   = 29
	keyRCtrl   = 97
	keyLShift  = 42
	keyRShift  = 54
	keyM       = 50
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

type evdevHotkey struct {
	keydown chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

// New creates the chord watcher using evdev (reads /dev/input directly).
func New() Hotkey {
	return &evdevHotkey{
		keydown: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

func (h *evdevHotkey) Register() error {
	keyboards, err := keyhook.Keyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}
	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	return nil
}

func (h *evdevHotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var c chord

	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))
			if evType != evKey {
				continue
			}
			if c.feed(evCode, evValue) {
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (h *evdevHotkey) Unregister() {
	h.once.Do(func() {
		close(h.stop)
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *evdevHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

// chord tracks modifier state for one device.
type chord struct {
	ctrl, shift, held bool
}

// feed reports whether this event completes a fresh Ctrl+Shift+M press.
func (c *chord) feed(code uint16, value int32) bool {
	pressed := value == keyPress
	released := value == keyRelease

	switch code {
	case keyLCtrl, keyRCtrl:
		c.ctrl = pressed || (!released && c.ctrl)
	case keyLShift, keyRShift:
		c.shift = pressed || (!released && c.shift)
	case keyM:
		if pressed && !c.held && c.ctrl && c.shift {
			c.held = true
			return true
		}
		if released {
			c.held = false
		}
	}
	return false
}
