//go:build linux

package audio

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"keybeat/log"
)

// pulseEngine opens one playback stream per triggered clip on a shared
// PulseAudio client. Overlap is handled by the server mixer.
type pulseEngine struct {
	client *pulse.Client
	gain   Gain

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewEngine(gain Gain) (Engine, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseEngine{client: c, gain: gain}, nil
}

func (e *pulseEngine) Name() string { return "pulse" }

func (e *pulseEngine) Play(c *Clip, volume float64) {
	if c.Empty() {
		return
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()
	go e.play(c, volume)
}

func (e *pulseEngine) play(c *Clip, volume float64) {
	defer e.wg.Done()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(c.Data) {
			return 0, pulse.EndOfData
		}
		g := float32(volume * e.gain.Gain())
		n := min(len(buf), len(c.Data)-pos)
		for i := range n {
			buf[i] = toInt16(c.Data[pos+i] * g)
		}
		pos += n
		return n, nil
	})
	stream, err := e.client.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(SampleRate),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		log.Warnf("pulse playback error (%s): %v", c.Name, err)
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}

// Close waits for sounding clips to drain, then drops the client.
func (e *pulseEngine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
	e.client.Close()
}
