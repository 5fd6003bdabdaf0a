package audio

import "keybeat/log"

const (
	SampleRate = 44100
	Channels   = 2
)

// Clip is a decoded sample held as interleaved stereo float32 at SampleRate.
// A nil or empty clip plays nothing.
type Clip struct {
	Name string
	Data []float32
}

func (c *Clip) Frames() int {
	if c == nil {
		return 0
	}
	return len(c.Data) / Channels
}

func (c *Clip) Empty() bool { return c == nil || len(c.Data) == 0 }

// Gain reports the master output gain. Engines read it while mixing so a
// change reaches clips that are already playing.
type Gain interface {
	Gain() float64
}

// Engine triggers clips. Play never blocks and never reports errors; clips
// overlap freely.
type Engine interface {
	Play(c *Clip, volume float64)
	Name() string
	Close()
}

type nopEngine struct{}

// Nop returns an engine that silently drops every clip. It stands in when no
// audio backend could be opened.
func Nop() Engine { return nopEngine{} }

func (nopEngine) Play(*Clip, float64) {}
func (nopEngine) Name() string        { return "none" }
func (nopEngine) Close()              {}

// Open starts the platform engine, falling back to Nop on failure.
func Open(gain Gain) Engine {
	e, err := NewEngine(gain)
	if err != nil {
		log.Errorf("audio engine init error: %v", err)
		return Nop()
	}
	return e
}

func toInt16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
