package audio

import "sync"

type voice struct {
	clip   *Clip
	pos    int
	volume float32
}

// Mixer sums any number of overlapping clips into one output buffer. New
// clips never cut or duck the ones already sounding.
type Mixer struct {
	mu     sync.Mutex
	voices []*voice
	gain   Gain
}

func NewMixer(gain Gain) *Mixer {
	return &Mixer{gain: gain}
}

func (m *Mixer) Add(c *Clip, volume float64) {
	if c.Empty() {
		return
	}
	m.mu.Lock()
	m.voices = append(m.voices, &voice{clip: c, volume: float32(volume)})
	m.mu.Unlock()
}

// Active reports how many clips are still sounding.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Read fills out with mixed interleaved stereo and drops finished voices.
func (m *Mixer) Read(out []float32) {
	for i := range out {
		out[i] = 0
	}
	g := float32(1)
	if m.gain != nil {
		g = float32(m.gain.Gain())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.voices[:0]
	for _, v := range m.voices {
		n := min(len(out), len(v.clip.Data)-v.pos)
		src := v.clip.Data[v.pos : v.pos+n]
		for i, s := range src {
			out[i] += s * v.volume * g
		}
		v.pos += n
		if v.pos < len(v.clip.Data) {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live
}

// ReadInt16 mixes into out as little-endian signed 16-bit PCM.
func (m *Mixer) ReadInt16(out []byte, scratch []float32) []float32 {
	samples := len(out) / 2
	if cap(scratch) < samples {
		scratch = make([]float32, samples)
	}
	scratch = scratch[:samples]
	m.Read(scratch)
	for i, s := range scratch {
		v := toInt16(s)
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return scratch
}
