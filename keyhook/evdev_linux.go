//go:build linux

package keyhook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"keybeat/log"
)

type evdevHook struct {
	events chan Event
	repeat bool
	files  []*os.File
	stop   chan struct{}
	once   sync.Once
}

// New creates a hook that reads /dev/input directly. Requires the user to be
// in the 'input' group.
func New(repeat bool) Hook {
	return &evdevHook{
		events: make(chan Event, eventBuffer),
		repeat: repeat,
		stop:   make(chan struct{}),
	}
}

func (h *evdevHook) Name() string { return "evdev" }

func (h *evdevHook) Register() error {
	keyboards, err := Keyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f, deviceName(path))
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	log.HookStart(h.Name(), len(h.files))
	return nil
}

func (h *evdevHook) readEvents(f *os.File, device string) {
	buf := make([]byte, inputEventSize*16)
	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		for _, ev := range decodeKeyDowns(buf[:n], device, h.repeat) {
			select {
			case h.events <- ev:
			case <-h.stop:
				return
			}
		}
	}
}

func (h *evdevHook) Unregister() {
	h.once.Do(func() {
		close(h.stop)
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *evdevHook) Events() <-chan Event {
	return h.events
}

// Keyboards lists evdev nodes whose key capabilities look like a keyboard.
func Keyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

func deviceName(path string) string {
	data, err := os.ReadFile(filepath.Join("/sys/class/input", filepath.Base(path), "device", "name"))
	if err != nil {
		return filepath.Base(path)
	}
	return strings.TrimSpace(string(data))
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := Keyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened []string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = append(opened, deviceName(path))
		}
	}
	if len(opened) == 0 {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, readable: %s", len(keyboards), strings.Join(opened, ", ")), nil
}
