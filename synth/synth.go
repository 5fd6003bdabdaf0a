// Package synth renders the sample assets: five Karplus-Strong felt piano
// notes on the C minor pentatonic scale and three drum hits.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"

	"keybeat/audio"
	"keybeat/bank"
)

const SampleRate = audio.SampleRate

const rate = float64(SampleRate)

// samplesFor truncates a duration in seconds to a sample count.
func samplesFor(seconds float64) int {
	return int(seconds * rate)
}

// Note frequencies in melody bank order.
var Notes = []float64{261.63, 311.13, 349.23, 392.00, 466.16}

const (
	noteDuration = 5.0
	noteAmp      = 0.6
	drumAmp      = 0.9

	decay     = 0.992
	smoothing = 0.5

	thumpFreq = 50.0
	thumpLen  = 1000
	thumpGain = 0.15
)

// FeltPiano renders one mono note of the given length in samples. The
// excitation is smoothed noise so the attack sounds like a felt hammer.
func FeltPiano(freq float64, samples int, rng *rand.Rand) []float32 {
	n := int(rate/freq - 0.5)
	if n < 2 {
		n = 2
	}

	excitation := make([]float64, n)
	for i := range excitation {
		excitation[i] = rng.Float64()*2 - 1
	}
	for range 3 {
		excitation = movingAverage(excitation, n/4)
	}

	table := append([]float64(nil), excitation...)
	out := make([]float64, 0, max(samples, n))
	out = append(out, excitation...)

	for i := 0; i < thumpLen && i < len(out); i++ {
		t := float64(i) / rate
		env := math.Exp(-float64(i) * 0.01)
		out[i] += math.Sin(2*math.Pi*thumpFreq*t) * env * thumpGain
	}

	ptr := 0
	prev := 0.0
	for len(out) < samples {
		delayed := table[ptr]
		v := (smoothing*delayed + (1-smoothing)*prev) * decay
		table[ptr] = v
		prev = delayed
		ptr = (ptr + 1) % n
		out = append(out, v)
	}
	return toFloat32(out)
}

func movingAverage(data []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(data))
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// RoomAmbience adds two early reflections (10ms and 23ms) to a mono signal.
// The result is longer than the input by the longest delay.
func RoomAmbience(data []float32) []float32 {
	delays := []int{samplesFor(0.01), samplesFor(0.023)}
	gains := []float32{0.1, 0.05}

	out := make([]float32, len(data)+delays[len(delays)-1])
	copy(out, data)
	for k, d := range delays {
		for i, v := range data {
			out[i+d] += v * gains[k]
		}
	}
	return out
}

// Kick is a pitch-swept sine from 150Hz down to 50Hz.
func Kick() []float32 {
	n := samplesFor(0.45)
	out := make([]float32, n)
	phase := 0.0
	for i := range out {
		t := float64(i) / rate
		freq := 50 + 100*math.Exp(-t*30)
		phase += 2 * math.Pi * freq / rate
		out[i] = float32(math.Sin(phase) * math.Exp(-t*7))
	}
	return out
}

// Snare mixes a short 180Hz body with a noise burst.
func Snare(rng *rand.Rand) []float32 {
	n := samplesFor(0.25)
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / rate
		body := math.Sin(2*math.Pi*180*t) * math.Exp(-t*25) * 0.5
		noise := (rng.Float64()*2 - 1) * math.Exp(-t*18) * 0.6
		out[i] = float32(body + noise)
	}
	return out
}

// Hat is first-differenced noise with a fast decay.
func Hat(rng *rand.Rand) []float32 {
	n := samplesFor(0.08)
	out := make([]float32, n)
	prev := 0.0
	for i := range out {
		t := float64(i) / rate
		v := rng.Float64()*2 - 1
		out[i] = float32((v - prev) * 0.5 * math.Exp(-t*60))
		prev = v
	}
	return out
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

// WriteWAV scales mono by amp, clips to [-1,1] and writes it as 16-bit
// stereo PCM with both channels equal.
func WriteWAV(path string, mono []float32, amp float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	data := make([]float32, 2*len(mono))
	for i, v := range mono {
		v = min(max(v*amp, -1), 1)
		data[2*i] = v
		data[2*i+1] = v
	}

	enc := wav.NewEncoder(f, SampleRate, 16, audio.Channels, 1)
	buf := &goaudio.Float32Buffer{
		Format: &goaudio.Format{
			SampleRate:  SampleRate,
			NumChannels: audio.Channels,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

// Generate writes every asset named by layout into dir and returns the
// paths written. The same seed reproduces the same files.
func Generate(dir string, layout bank.Layout, seed uint64) ([]string, error) {
	if len(layout.Melody) > len(Notes) {
		return nil, fmt.Errorf("layout has %d melody slots, only %d notes known", len(layout.Melody), len(Notes))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	type job struct {
		file string
		data []float32
		amp  float32
	}
	var jobs []job
	for i, file := range layout.Melody {
		note := FeltPiano(Notes[i], samplesFor(noteDuration), rng)
		jobs = append(jobs, job{file, RoomAmbience(note), noteAmp})
	}
	jobs = append(jobs,
		job{layout.Kick, Kick(), drumAmp},
		job{layout.Snare, Snare(rng), drumAmp},
		job{layout.Hat, Hat(rng), drumAmp},
	)

	var written []string
	for _, j := range jobs {
		path := filepath.Join(dir, j.file)
		if err := WriteWAV(path, j.data, j.amp); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
