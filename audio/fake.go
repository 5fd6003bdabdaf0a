package audio

import (
	"sync"
	"time"
)

// Played records one call to FakeEngine.Play.
type Played struct {
	Clip   string
	Volume float64
	Gain   float64
}

// FakeEngine records play calls instead of producing sound.
type FakeEngine struct {
	gain Gain

	mu     sync.Mutex
	plays  []Played
	notify chan struct{}
}

func NewFakeEngine(gain Gain) *FakeEngine {
	return &FakeEngine{gain: gain, notify: make(chan struct{}, 1)}
}

func (f *FakeEngine) Name() string { return "fake" }
func (f *FakeEngine) Close()       {}

// Play records the call, including nil or empty clips, so callers can count
// every trigger.
func (f *FakeEngine) Play(c *Clip, volume float64) {
	p := Played{Volume: volume}
	if c != nil {
		p.Clip = c.Name
	}
	if f.gain != nil {
		p.Gain = f.gain.Gain()
	}
	f.mu.Lock()
	f.plays = append(f.plays, p)
	f.mu.Unlock()
	select {
	case f.notify <- struct{}{}:
	default:
	}
}

func (f *FakeEngine) Plays() []Played {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Played, len(f.plays))
	copy(out, f.plays)
	return out
}

// WaitPlays blocks until at least n plays were recorded or timeout elapses.
func (f *FakeEngine) WaitPlays(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		f.mu.Lock()
		got := len(f.plays)
		f.mu.Unlock()
		if got >= n {
			return true
		}
		select {
		case <-f.notify:
		case <-deadline:
			return false
		}
	}
}
