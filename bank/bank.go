// Package bank binds the fixed rhythm slots and the melody sequence to clips
// and selects which one a key code triggers.
package bank

import (
	"fmt"
	"path/filepath"

	"keybeat/audio"
	"keybeat/keymap"
	"keybeat/log"
)

// Kind distinguishes the rhythm path from the melodic path.
type Kind int

const (
	Melody Kind = iota
	Kick
	Snare
	Hat
)

func (k Kind) String() string {
	switch k {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case Hat:
		return "hat"
	}
	return "melody"
}

// Slot is one playable entry: a relative asset path, its playback volume,
// and the clip decoded from it (nil when the file was missing or invalid).
type Slot struct {
	Kind   Kind
	Index  int
	Path   string
	Volume float64
	Clip   *audio.Clip
}

func (s *Slot) Name() string {
	if s.Kind == Melody {
		return fmt.Sprintf("melody_%d", s.Index)
	}
	return s.Kind.String()
}

// Bank is immutable after Load.
type Bank struct {
	kick, snare, hat Slot
	melody           []Slot
}

// Selection is what a key code resolves to.
type Selection struct {
	Kind  Kind
	Index int // melody index, -1 for rhythm
}

// Select applies the fixed mapping: Space, Enter and Backspace hit the
// rhythm slots; every other code picks melody[code mod n], so distinct codes
// alias onto the same note.
func Select(code, n int) Selection {
	switch code {
	case keymap.Space:
		return Selection{Kind: Kick, Index: -1}
	case keymap.Enter:
		return Selection{Kind: Snare, Index: -1}
	case keymap.Backspace:
		return Selection{Kind: Hat, Index: -1}
	}
	if n <= 0 {
		return Selection{Kind: Melody, Index: -1}
	}
	idx := code % n
	if idx < 0 {
		idx += n
	}
	return Selection{Kind: Melody, Index: idx}
}

// Layout lists the asset files a default bank loads, relative to a sounds
// directory.
type Layout struct {
	Kick, Snare, Hat string
	Melody           []string
}

var DefaultLayout = Layout{
	Kick:  "kick.wav",
	Snare: "snare.wav",
	Hat:   "hat.wav",
	Melody: []string{
		"felt_piano_1_C4.wav",
		"felt_piano_2_Eb4.wav",
		"felt_piano_3_F4.wav",
		"felt_piano_4_G4.wav",
		"felt_piano_5_Bb4.wav",
	},
}

const (
	melodyVolume = 0.8
	kickVolume   = 1.0
	snareVolume  = 1.0
	hatVolume    = 0.5
)

// Loader decodes one asset. audio.LoadWAV in production.
type Loader func(path string) (*audio.Clip, error)

// Load builds a bank from dir. A file that fails to load leaves its slot
// silent and is logged; Load itself never fails.
func Load(dir string, layout Layout, load Loader) *Bank {
	if load == nil {
		load = audio.LoadWAV
	}
	slot := func(kind Kind, idx int, file string, vol float64) Slot {
		s := Slot{Kind: kind, Index: idx, Path: filepath.Join(dir, file), Volume: vol}
		clip, err := load(s.Path)
		if err != nil {
			log.SampleMissing(s.Name(), s.Path, err)
			return s
		}
		clip.Name = s.Name()
		s.Clip = clip
		return s
	}

	b := &Bank{
		kick:  slot(Kick, -1, layout.Kick, kickVolume),
		snare: slot(Snare, -1, layout.Snare, snareVolume),
		hat:   slot(Hat, -1, layout.Hat, hatVolume),
	}
	for i, f := range layout.Melody {
		b.melody = append(b.melody, slot(Melody, i, f, melodyVolume))
	}
	return b
}

func (b *Bank) MelodyLen() int { return len(b.melody) }

// Slot resolves code to the slot it triggers. It returns nil only for a
// non-rhythm code when the bank has no melody.
func (b *Bank) Slot(code int) *Slot {
	sel := Select(code, len(b.melody))
	switch sel.Kind {
	case Kick:
		return &b.kick
	case Snare:
		return &b.snare
	case Hat:
		return &b.hat
	}
	if sel.Index < 0 {
		return nil
	}
	return &b.melody[sel.Index]
}

// Slots lists every slot, rhythm first.
func (b *Bank) Slots() []*Slot {
	out := []*Slot{&b.kick, &b.snare, &b.hat}
	for i := range b.melody {
		out = append(out, &b.melody[i])
	}
	return out
}

// Missing counts slots without a decoded clip.
func (b *Bank) Missing() int {
	n := 0
	for _, s := range b.Slots() {
		if s.Clip == nil {
			n++
		}
	}
	return n
}
