//go:build !linux

package audio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// malgoEngine keeps a single playback device running and feeds it from a
// Mixer, so overlapping clips share one stream.
type malgoEngine struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	mixer  *Mixer

	scratch   []float32
	closeOnce sync.Once
}

func NewEngine(gain Gain) (Engine, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo context: %w", err)
	}

	e := &malgoEngine{ctx: ctx, mixer: NewMixer(gain)}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = Channels
	config.SampleRate = SampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: e.dataCallback,
	}
	e.device, err = malgo.InitDevice(ctx.Context, config, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("malgo device: %w", err)
	}
	if err := e.device.Start(); err != nil {
		e.device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("malgo start: %w", err)
	}
	return e, nil
}

func (e *malgoEngine) dataCallback(pOutput, _ []byte, frameCount uint32) {
	n := int(frameCount) * Channels * 2
	if n > len(pOutput) {
		n = len(pOutput)
	}
	e.scratch = e.mixer.ReadInt16(pOutput[:n], e.scratch)
}

func (e *malgoEngine) Name() string { return "malgo" }

func (e *malgoEngine) Play(c *Clip, volume float64) {
	e.mixer.Add(c, volume)
}

func (e *malgoEngine) Close() {
	e.closeOnce.Do(func() {
		e.device.Uninit()
		e.ctx.Uninit()
		e.ctx.Free()
	})
}
