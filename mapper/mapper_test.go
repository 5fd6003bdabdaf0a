package mapper

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keybeat/audio"
	"keybeat/bank"
	"keybeat/bridge"
	"keybeat/display"
	"keybeat/keyhook"
)

func loader(missing ...string) bank.Loader {
	return func(path string) (*audio.Clip, error) {
		for _, m := range missing {
			if strings.HasSuffix(path, m) {
				return nil, errors.New("missing")
			}
		}
		return &audio.Clip{Name: filepath.Base(path), Data: []float32{0, 0}}, nil
	}
}

type fixture struct {
	ctrl   *audio.Controller
	engine *audio.FakeEngine
	rec    *display.Recorder
	flash  *display.Flash
	m      *Mapper
}

func newFixture(t *testing.T, missing ...string) *fixture {
	t.Helper()
	f := &fixture{ctrl: audio.NewController(1, false), rec: &display.Recorder{}}
	f.engine = audio.NewFakeEngine(f.ctrl)
	f.flash = display.New(f.rec, display.WithDelay(10*time.Millisecond))
	t.Cleanup(f.flash.Stop)
	b := bank.Load("sounds", bank.DefaultLayout, loader(missing...))
	f.m = New(b, f.engine, f.flash)
	return f
}

func clipNames(plays []audio.Played) []string {
	out := make([]string, len(plays))
	for i, p := range plays {
		out[i] = p.Clip
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScenarioQSpaceUnknown(t *testing.T) {
	f := newFixture(t)
	for _, code := range []int{16, 57, 99} {
		f.m.Handle(keyhook.Event{Keycode: code})
	}

	plays := f.engine.Plays()
	if want := []string{"melody_1", "kick", "melody_4"}; !equal(clipNames(plays), want) {
		t.Errorf("plays = %v, want %v", clipNames(plays), want)
	}
	if want := []string{"Q", "Space", "UNKNOWN: 99"}; !equal(f.rec.TextsSnapshot(), want) {
		t.Errorf("labels = %v, want %v", f.rec.TextsSnapshot(), want)
	}
	if f.m.Keys() != 3 {
		t.Errorf("keys = %d, want 3", f.m.Keys())
	}
}

func TestRhythmKeysNeverMelodic(t *testing.T) {
	f := newFixture(t)
	codes := map[int]string{57: "kick", 28: "snare", 14: "hat"}
	for code, want := range codes {
		for range 3 {
			f.m.Handle(keyhook.Event{Keycode: code})
		}
		plays := f.engine.Plays()
		for _, p := range plays[len(plays)-3:] {
			if p.Clip != want {
				t.Errorf("code %d played %q, want %q", code, p.Clip, want)
			}
		}
	}
}

func TestSlotVolumes(t *testing.T) {
	f := newFixture(t)
	f.m.Handle(keyhook.Event{Keycode: 14})
	f.m.Handle(keyhook.Event{Keycode: 30})
	plays := f.engine.Plays()
	if plays[0].Volume != 0.5 || plays[1].Volume != 0.8 {
		t.Errorf("volumes = %v, %v want 0.5, 0.8", plays[0].Volume, plays[1].Volume)
	}
}

func TestMissingSampleStillTriggers(t *testing.T) {
	f := newFixture(t, "kick.wav")
	f.m.Handle(keyhook.Event{Keycode: 57})

	plays := f.engine.Plays()
	if len(plays) != 1 {
		t.Fatalf("plays = %d, want exactly 1", len(plays))
	}
	if plays[0].Clip != "" {
		t.Errorf("missing kick should trigger an empty clip, got %q", plays[0].Clip)
	}
	if got := f.rec.TextsSnapshot(); len(got) != 1 || got[0] != "Space" {
		t.Errorf("labels = %v, want [Space]", got)
	}
}

func TestMuteDoesNotChangeSelection(t *testing.T) {
	f := newFixture(t)
	f.ctrl.ToggleMute()
	f.m.Handle(keyhook.Event{Keycode: 16})
	f.ctrl.ToggleMute()
	f.m.Handle(keyhook.Event{Keycode: 16})

	plays := f.engine.Plays()
	if plays[0].Clip != plays[1].Clip {
		t.Errorf("selection changed with mute: %q vs %q", plays[0].Clip, plays[1].Clip)
	}
	if plays[0].Gain != 0 || plays[1].Gain != 1 {
		t.Errorf("gains = %v, %v want 0, 1", plays[0].Gain, plays[1].Gain)
	}
}

func TestRapidFireThroughBridge(t *testing.T) {
	f := newFixture(t)
	flash := display.New(f.rec, display.WithDelay(50*time.Millisecond))
	t.Cleanup(flash.Stop)
	m := New(bank.Load("sounds", bank.DefaultLayout, loader()), f.engine, flash)

	b := bridge.New()
	defer b.Close()
	b.OnGlobalKeyDown(m.Handle)

	hk := keyhook.NewFake()
	if err := b.Start(hk); err != nil {
		t.Fatal(err)
	}
	for i := range 10 {
		hk.SimKey(16 + i)
	}

	if !f.engine.WaitPlays(10, 2*time.Second) {
		t.Fatalf("plays = %d, want 10", len(f.engine.Plays()))
	}
	time.Sleep(150 * time.Millisecond)

	if n := len(f.engine.Plays()); n != 10 {
		t.Errorf("plays = %d, want 10", n)
	}
	if n := len(f.rec.TextsSnapshot()); n != 10 {
		t.Errorf("label updates = %d, want 10", n)
	}
	if flash.Reverts() != 1 {
		t.Errorf("reverts = %d, want 1", flash.Reverts())
	}
	if f.rec.Scale() != display.NormalScale {
		t.Errorf("final scale = %v, want normal", f.rec.Scale())
	}
}
