// Package shortcut registers the global mute chord, Ctrl+Shift+M.
package shortcut

import "context"

// Hotkey signals each press of a global key chord.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
}

// Label is shown in the UI help line.
const Label = "Ctrl+Shift+M"

// Watch calls fn for every chord press until ctx is done.
func Watch(ctx context.Context, hk Hotkey, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			fn()
		}
	}
}

type Fake struct {
	keydown chan struct{}
}

func NewFake() *Fake {
	return &Fake{keydown: make(chan struct{}, 1)}
}

func (f *Fake) Register() error          { return nil }
func (f *Fake) Unregister()              {}
func (f *Fake) Keydown() <-chan struct{} { return f.keydown }
func (f *Fake) SimKeydown()              { f.keydown <- struct{}{} }
