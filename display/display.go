// Package display drives the key label: text, a random palette colour and a
// short scale pulse.
package display

import (
	"image/color"
	"math/rand/v2"
	"sync"
	"time"
)

// Renderer is the surface the label lives on.
type Renderer interface {
	SetText(text string)
	SetColor(c color.Color)
	SetScale(s float32)
}

// Palette is sampled uniformly for every update.
var Palette = []color.RGBA{
	{0xFF, 0x6B, 0x6B, 0xFF},
	{0x4E, 0xCD, 0xC4, 0xFF},
	{0x45, 0xB7, 0xD1, 0xFF},
	{0x96, 0xCE, 0xB4, 0xFF},
	{0xFF, 0xEE, 0xAD, 0xFF},
	{0xD4, 0xA5, 0xA5, 0xFF},
	{0x9B, 0x59, 0xB6, 0xFF},
	{0x34, 0x98, 0xDB, 0xFF},
}

const (
	PulseScale  float32 = 1.2
	NormalScale float32 = 1.0
	PulseDelay          = 50 * time.Millisecond
)

// Flash applies label updates to a Renderer. Each Show bumps a generation
// and replaces the pending revert, so only the newest pulse returns the
// label to normal scale.
type Flash struct {
	r     Renderer
	pick  func(n int) int
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	reverts int
}

type Option func(*Flash)

// WithPicker replaces the random palette index source.
func WithPicker(pick func(n int) int) Option {
	return func(f *Flash) { f.pick = pick }
}

func WithDelay(d time.Duration) Option {
	return func(f *Flash) { f.delay = d }
}

func New(r Renderer, opts ...Option) *Flash {
	f := &Flash{r: r, pick: rand.IntN, delay: PulseDelay}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Show sets the label, picks a colour and starts a pulse. It returns the
// colour used.
func (f *Flash) Show(text string) color.RGBA {
	c := Palette[f.pick(len(Palette))]

	f.mu.Lock()
	defer f.mu.Unlock()
	f.r.SetText(text)
	f.r.SetColor(c)
	f.r.SetScale(PulseScale)

	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.delay, func() { f.revert(gen) })
	return c
}

func (f *Flash) revert(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	f.timer = nil
	f.reverts++
	f.r.SetScale(NormalScale)
}

// Reverts counts pulses that actually returned to normal scale.
func (f *Flash) Reverts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reverts
}

// Pending reports whether a revert is scheduled.
func (f *Flash) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timer != nil
}

// Stop cancels a pending revert and snaps back to normal scale.
func (f *Flash) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
		f.gen++
		f.r.SetScale(NormalScale)
	}
}
