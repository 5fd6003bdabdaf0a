package display

import (
	"image/color"
	"sync"
)

// Recorder is a Renderer that keeps every call. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	Texts  []string
	Colors []color.Color
	Scales []float32
}

func (r *Recorder) SetText(text string) {
	r.mu.Lock()
	r.Texts = append(r.Texts, text)
	r.mu.Unlock()
}

func (r *Recorder) SetColor(c color.Color) {
	r.mu.Lock()
	r.Colors = append(r.Colors, c)
	r.mu.Unlock()
}

func (r *Recorder) SetScale(s float32) {
	r.mu.Lock()
	r.Scales = append(r.Scales, s)
	r.mu.Unlock()
}

func (r *Recorder) TextsSnapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Texts...)
}

func (r *Recorder) ScalesSnapshot() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float32(nil), r.Scales...)
}

// Scale is the most recent scale, NormalScale if none was set.
func (r *Recorder) Scale() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Scales) == 0 {
		return NormalScale
	}
	return r.Scales[len(r.Scales)-1]
}
