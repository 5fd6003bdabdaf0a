// Package mapper turns each forwarded key-down into one sample trigger and
// one label update.
package mapper

import (
	"sync/atomic"

	"keybeat/audio"
	"keybeat/bank"
	"keybeat/display"
	"keybeat/keyhook"
	"keybeat/keymap"
)

type Mapper struct {
	bank   *bank.Bank
	engine audio.Engine
	flash  *display.Flash
	keys   atomic.Uint64
}

func New(b *bank.Bank, engine audio.Engine, flash *display.Flash) *Mapper {
	return &Mapper{bank: b, engine: engine, flash: flash}
}

// Handle issues exactly one Play and exactly one Show for ev. A slot whose
// sample failed to load is still triggered; the engine plays nothing.
func (m *Mapper) Handle(ev keyhook.Event) {
	m.keys.Add(1)

	var clip *audio.Clip
	var volume float64
	if s := m.bank.Slot(ev.Keycode); s != nil {
		clip, volume = s.Clip, s.Volume
	}
	m.engine.Play(clip, volume)
	m.flash.Show(keymap.Label(ev.Keycode))
}

// Keys counts handled events.
func (m *Mapper) Keys() uint64 { return m.keys.Load() }
