package bridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"keybeat/keyhook"
)

type collector struct {
	mu    sync.Mutex
	codes []int
	got   chan struct{}
}

func newCollector() *collector {
	return &collector{got: make(chan struct{}, 1)}
}

func (c *collector) handle(ev keyhook.Event) {
	c.mu.Lock()
	c.codes = append(c.codes, ev.Keycode)
	c.mu.Unlock()
	select {
	case c.got <- struct{}{}:
	default:
	}
}

func (c *collector) wait(t *testing.T, n int) []int {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		c.mu.Lock()
		if len(c.codes) >= n {
			out := append([]int(nil), c.codes...)
			c.mu.Unlock()
			return out
		}
		c.mu.Unlock()
		select {
		case <-c.got:
		case <-deadline:
			t.Fatalf("timed out waiting for %d events", n)
		}
	}
}

func TestOrderPreserved(t *testing.T) {
	b := New()
	defer b.Close()
	c := newCollector()
	b.OnGlobalKeyDown(c.handle)

	const n = 2000
	for i := range n {
		b.Publish(keyhook.Event{Keycode: i})
	}
	got := c.wait(t, n)
	for i, code := range got {
		if code != i {
			t.Fatalf("event %d has code %d", i, code)
		}
	}
	if b.Forwarded() != n {
		t.Errorf("forwarded = %d, want %d", b.Forwarded(), n)
	}
}

func TestDropWithoutSurface(t *testing.T) {
	b := New()
	defer b.Close()

	b.Publish(keyhook.Event{Keycode: 16})
	b.Publish(keyhook.Event{Keycode: 17})
	if b.Dropped() != 2 {
		t.Errorf("dropped = %d, want 2", b.Dropped())
	}

	c := newCollector()
	b.OnGlobalKeyDown(c.handle)
	b.Publish(keyhook.Event{Keycode: 18})
	if got := c.wait(t, 1); len(got) != 1 || got[0] != 18 {
		t.Errorf("got %v, want [18]", got)
	}
}

func TestDetachThenReattach(t *testing.T) {
	b := New()
	defer b.Close()

	first := newCollector()
	detach := b.OnGlobalKeyDown(first.handle)
	b.Publish(keyhook.Event{Keycode: 1})
	first.wait(t, 1)

	detach()
	detach() // idempotent
	b.Publish(keyhook.Event{Keycode: 2})

	second := newCollector()
	b.OnGlobalKeyDown(second.handle)
	b.Publish(keyhook.Event{Keycode: 3})
	if got := second.wait(t, 1); got[0] != 3 {
		t.Errorf("second surface got %v, want [3]", got)
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	if len(first.codes) != 1 {
		t.Errorf("detached surface received %v", first.codes)
	}
}

func TestStaleDetachKeepsNewSurface(t *testing.T) {
	b := New()
	defer b.Close()

	detachOld := b.OnGlobalKeyDown(func(keyhook.Event) {})
	c := newCollector()
	b.OnGlobalKeyDown(c.handle)
	detachOld()

	b.Publish(keyhook.Event{Keycode: 5})
	c.wait(t, 1)
}

func TestPublishDoesNotBlock(t *testing.T) {
	b := New()
	defer b.Close()

	release := make(chan struct{})
	b.OnGlobalKeyDown(func(keyhook.Event) { <-release })

	done := make(chan struct{})
	go func() {
		for i := range 10000 {
			b.Publish(keyhook.Event{Keycode: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked behind a slow surface")
	}
	close(release)
}

func TestStartRegistersOnce(t *testing.T) {
	b := New()
	defer b.Close()
	c := newCollector()
	b.OnGlobalKeyDown(c.handle)

	hk := keyhook.NewFake()
	if err := b.Start(hk); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(hk); err != nil {
		t.Fatal(err)
	}
	if hk.Registrations() != 1 {
		t.Errorf("registrations = %d, want 1", hk.Registrations())
	}

	hk.SimKey(16)
	hk.SimKey(57)
	hk.SimKey(99)
	got := c.wait(t, 3)
	want := []int{16, 57, 99}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

type failingHook struct{ *keyhook.Fake }

func (failingHook) Register() error { return errors.New("no keyboards") }

func TestStartError(t *testing.T) {
	b := New()
	defer b.Close()
	if err := b.Start(failingHook{keyhook.NewFake()}); err == nil {
		t.Fatal("expected register error")
	}
}

func TestClose(t *testing.T) {
	b := New()
	b.OnGlobalKeyDown(func(keyhook.Event) {})
	b.Close()
	b.Close()
	b.Publish(keyhook.Event{Keycode: 1})
	if b.Dropped() == 0 {
		t.Error("publish after close should be dropped")
	}
	if err := b.Start(keyhook.NewFake()); !errors.Is(err, ErrClosed) {
		t.Errorf("Start after Close = %v, want ErrClosed", err)
	}
}
