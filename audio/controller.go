package audio

import "sync"

// State is a snapshot of the master playback controls.
type State struct {
	Muted  bool
	Volume float64
}

// Controller holds the process-wide mute flag and master volume. Mute and
// volume are independent: muting keeps the stored level and changing the
// level while muted does not unmute.
type Controller struct {
	mu       sync.Mutex
	muted    bool
	volume   float64
	watchers []func(State)
}

func NewController(volume float64, muted bool) *Controller {
	return &Controller{volume: clamp(volume), muted: muted}
}

// ToggleMute flips the mute flag and returns the new value.
func (c *Controller) ToggleMute() bool {
	c.mu.Lock()
	c.muted = !c.muted
	muted := c.muted
	c.mu.Unlock()
	c.notify()
	return muted
}

// SetVolume stores level clamped to [0, 1] and returns the stored value.
func (c *Controller) SetVolume(level float64) float64 {
	c.mu.Lock()
	c.volume = clamp(level)
	v := c.volume
	c.mu.Unlock()
	c.notify()
	return v
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Muted: c.muted, Volume: c.volume}
}

// Gain is 0 while muted, otherwise the master volume.
func (c *Controller) Gain() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muted {
		return 0
	}
	return c.volume
}

// OnChange registers fn to run after every mute or volume change. fn runs on
// the goroutine that made the change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.watchers = append(c.watchers, fn)
	c.mu.Unlock()
}

func (c *Controller) notify() {
	c.mu.Lock()
	st := State{Muted: c.muted, Volume: c.volume}
	ws := c.watchers
	c.mu.Unlock()
	for _, fn := range ws {
		fn(st)
	}
}

func clamp(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
