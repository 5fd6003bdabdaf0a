package synth

import (
	"math"
	"math/rand/v2"
	"testing"

	"keybeat/audio"
	"keybeat/bank"
)

func TestFeltPianoLengthAndDecay(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	n := SampleRate
	note := FeltPiano(Notes[0], n, rng)
	if len(note) != n {
		t.Fatalf("len = %d, want %d", len(note), n)
	}
	head := rms(note[:SampleRate/10])
	tail := rms(note[n-SampleRate/10:])
	if head == 0 {
		t.Fatal("note is silent")
	}
	if tail >= head {
		t.Errorf("tail rms %v should be below head rms %v", tail, head)
	}
}

func TestFeltPianoDeterministic(t *testing.T) {
	a := FeltPiano(Notes[2], 2000, rand.New(rand.NewPCG(7, 7)))
	b := FeltPiano(Notes[2], 2000, rand.New(rand.NewPCG(7, 7)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRoomAmbience(t *testing.T) {
	in := make([]float32, 10)
	in[0] = 1
	out := RoomAmbience(in)
	if want := len(in) + samplesFor(0.023); len(out) != want {
		t.Fatalf("len = %d, want %d", len(out), want)
	}
	if out[0] != 1 {
		t.Errorf("dry sample = %v", out[0])
	}
	if got := out[samplesFor(0.01)]; math.Abs(float64(got)-0.1) > 1e-6 {
		t.Errorf("10ms reflection = %v, want 0.1", got)
	}
	if got := out[samplesFor(0.023)]; math.Abs(float64(got)-0.05) > 1e-6 {
		t.Errorf("23ms reflection = %v, want 0.05", got)
	}
}

func TestSamplesFor(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{0.01, 441},
		{0.023, 1014},
		{0.45, 19845},
		{noteDuration, 220500},
	}
	for _, tt := range tests {
		if got := samplesFor(tt.seconds); got != tt.want {
			t.Errorf("samplesFor(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	paths, err := Generate(dir, bank.DefaultLayout, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 8 {
		t.Fatalf("wrote %d files, want 8", len(paths))
	}

	b := bank.Load(dir, bank.DefaultLayout, audio.LoadWAV)
	if n := b.Missing(); n != 0 {
		t.Fatalf("%d generated samples failed to load", n)
	}
	kick := b.Slot(57)
	if kick.Clip.Frames() != len(Kick()) {
		t.Errorf("kick frames = %d, want %d", kick.Clip.Frames(), len(Kick()))
	}
	for _, v := range kick.Clip.Data {
		if v < -1 || v > 1 {
			t.Fatalf("sample out of range: %v", v)
		}
	}
}

func TestGenerateRejectsLongMelody(t *testing.T) {
	layout := bank.DefaultLayout
	layout.Melody = append(append([]string(nil), layout.Melody...), "extra.wav")
	if _, err := Generate(t.TempDir(), layout, 1); err == nil {
		t.Fatal("expected error for unknown melody slot")
	}
}

func rms(data []float32) float64 {
	sum := 0.0
	for _, v := range data {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(data)))
}
