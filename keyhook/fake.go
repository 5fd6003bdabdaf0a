package keyhook

import (
	"sync/atomic"
	"time"
)

type Fake struct {
	events     chan Event
	registered atomic.Int32
}

func NewFake() *Fake {
	return &Fake{events: make(chan Event, eventBuffer)}
}

func (f *Fake) Name() string         { return "fake" }
func (f *Fake) Register() error      { f.registered.Add(1); return nil }
func (f *Fake) Unregister()          {}
func (f *Fake) Events() <-chan Event { return f.events }
func (f *Fake) Registrations() int   { return int(f.registered.Load()) }

func (f *Fake) SimKey(code int) {
	f.events <- Event{Keycode: code, Rawcode: code, Time: time.Now(), Device: "fake"}
}
