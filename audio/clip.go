package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wav"
)

// LoadWAV decodes a mono or stereo WAV file into a Clip, converting to
// stereo and to SampleRate as needed.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("invalid wav buffer: %s", path)
	}
	if buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid wav sample-rate: %d", buf.Format.SampleRate)
	}

	data := toStereo(buf.Data, buf.Format.NumChannels)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty wav data: %s", path)
	}
	data = resample(data, buf.Format.SampleRate, SampleRate)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Clip{Name: name, Data: data}, nil
}

// toStereo keeps the first two channels of interleaved data, duplicating
// mono into both.
func toStereo(data []float32, numCh int) []float32 {
	frames := len(data) / numCh
	out := make([]float32, frames*Channels)
	for i := range frames {
		l := data[i*numCh]
		r := l
		if numCh > 1 {
			r = data[i*numCh+1]
		}
		out[i*2] = l
		out[i*2+1] = r
	}
	return out
}

// resample converts interleaved stereo between rates by linear
// interpolation.
func resample(data []float32, from, to int) []float32 {
	if from == to || len(data) == 0 {
		return data
	}
	inFrames := len(data) / Channels
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	if outFrames < 1 {
		outFrames = 1
	}
	out := make([]float32, outFrames*Channels)
	step := float64(from) / float64(to)
	for i := range outFrames {
		pos := float64(i) * step
		j := int(pos)
		frac := float32(pos - float64(j))
		if j >= inFrames-1 {
			j = inFrames - 1
			frac = 0
		}
		for ch := range Channels {
			a := data[j*Channels+ch]
			b := a
			if j+1 < inFrames {
				b = data[(j+1)*Channels+ch]
			}
			out[i*Channels+ch] = a + (b-a)*frac
		}
	}
	return out
}
