package main

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"keybeat/audio"
	"keybeat/bank"
	"keybeat/bridge"
	"keybeat/display"
	"keybeat/keyhook"
	"keybeat/log"
	"keybeat/mapper"
)

// printer serialises test-mode output lines.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format+"\n", args...)
}

// printEngine reports every trigger instead of sounding it.
type printEngine struct {
	out  *printer
	gain audio.Gain
}

func (e printEngine) Name() string { return "print" }
func (e printEngine) Close()       {}

func (e printEngine) Play(c *audio.Clip, volume float64) {
	name := "-"
	if c != nil {
		name = c.Name
	}
	e.out.printf("play %s %.2f", name, volume*e.gain.Gain())
}

type printRenderer struct{ out *printer }

func (r printRenderer) SetText(text string)  { r.out.printf("label %s", text) }
func (r printRenderer) SetColor(color.Color) {}
func (r printRenderer) SetScale(s float32)   {}

// silentLoader keeps slot names when the asset directory is incomplete.
func silentLoader(path string) (*audio.Clip, error) {
	if c, err := audio.LoadWAV(path); err == nil {
		return c, nil
	}
	return &audio.Clip{}, nil
}

// runTestMode drives the pipeline from stdin commands:
//
//	KEY <code>  SLEEP <ms>  DETACH  ATTACH  MUTE  VOLUME <v>  QUIT
func runTestMode(soundsDir string) {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	out := &printer{w: os.Stdout}
	engine := printEngine{out: out, gain: ctrl}
	sounds := bank.Load(soundsDir, bank.DefaultLayout, silentLoader)
	m := mapper.New(sounds, engine, display.New(printRenderer{out: out}))

	br := bridge.New()
	hk := keyhook.NewFake()
	attach := func() func() {
		return br.OnGlobalKeyDown(m.Handle)
	}
	detach := attach()
	if err := br.Start(hk); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.SessionStart(engine.Name(), "test", soundsDir)

	// Every simulated key is either forwarded or dropped; settle waits for
	// all of them before the next non-key command.
	var sent uint64
	settle := func() {
		deadline := time.Now().Add(2 * time.Second)
		for br.Forwarded()+br.Dropped() < sent && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		verb, arg, _ := strings.Cut(cmd, " ")
		switch verb {
		case "KEY":
			code, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "bad key %q\n", arg)
				continue
			}
			hk.SimKey(code)
			sent++
			continue
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
			continue
		}

		settle()
		switch verb {
		case "DETACH":
			if detach != nil {
				detach()
				detach = nil
			}
		case "ATTACH":
			if detach == nil {
				detach = attach()
			}
		case "MUTE":
			out.printf("muted %v", ctrl.ToggleMute())
		case "VOLUME":
			if v, err := strconv.ParseFloat(arg, 64); err == nil {
				out.printf("volume %.2f", ctrl.SetVolume(v))
			}
		case "QUIT":
			br.Close()
			log.SessionEnd(m.Keys(), br.Dropped())
			out.printf("keys %d dropped %d", m.Keys(), br.Dropped())
			return
		}
	}
	settle()
	br.Close()
	log.SessionEnd(m.Keys(), br.Dropped())
}
