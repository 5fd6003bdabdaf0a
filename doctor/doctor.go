package doctor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"keybeat/audio"
	"keybeat/bank"
	"keybeat/keyhook"
	"keybeat/keymap"
	"keybeat/shutdown"
)

const keyTimeout = 10 * time.Second

type checker struct {
	ctx         context.Context
	out         io.Writer
	in          *bufio.Reader
	interactive bool
	sounds      string

	diagnose  func() (string, error)
	newHook   func() keyhook.Hook
	newEngine func(audio.Gain) (audio.Engine, error)

	bank *bank.Bank
}

// Run executes diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(soundsDir string) int {
	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		if state, err := term.GetState(fd); err == nil {
			defer term.Restore(fd, state)
		}
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	c := &checker{
		ctx:         ctx,
		out:         os.Stdout,
		in:          bufio.NewReader(os.Stdin),
		interactive: interactive,
		sounds:      soundsDir,
		diagnose:    keyhook.Diagnose,
		newHook:     func() keyhook.Hook { return keyhook.New(false) },
		newEngine:   audio.NewEngine,
	}
	return c.run()
}

func (c *checker) run() int {
	fmt.Fprintln(c.out, "keybeat doctor - system diagnostics")
	fmt.Fprintln(c.out, "===================================")

	allPass := true

	if !c.checkKeyboard() {
		allPass = false
	}
	if allPass && !c.checkCapture() {
		allPass = false
	}
	if !c.checkAssets() {
		allPass = false
	}
	if !c.checkAudio() {
		allPass = false
	}

	fmt.Fprintln(c.out)
	if allPass {
		fmt.Fprintln(c.out, "All checks passed!")
		return 0
	}
	fmt.Fprintln(c.out, "Some checks failed. See details above.")
	return 1
}

func (c *checker) checkKeyboard() bool {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "[1/4] Keyboard access")

	msg, err := c.diagnose()
	if err != nil {
		fmt.Fprintf(c.out, "  FAIL: %v\n", err)
		return false
	}
	fmt.Fprintf(c.out, "  PASS: %s\n", msg)
	return true
}

func (c *checker) checkCapture() bool {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "[2/4] Global key capture")
	if !c.interactive {
		fmt.Fprintln(c.out, "  SKIP: not a terminal")
		return true
	}
	fmt.Fprintln(c.out, "Press any key...")

	hk := c.newHook()
	if err := hk.Register(); err != nil {
		fmt.Fprintf(c.out, "  FAIL: could not register key hook: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case ev := <-hk.Events():
		fmt.Fprintf(c.out, "  PASS: caught code %d (%s) from %s\n", ev.Keycode, keymap.Label(ev.Keycode), ev.Device)
		return true
	case <-time.After(keyTimeout):
		fmt.Fprintln(c.out, "  FAIL: timeout waiting for a key press")
		return false
	case <-c.ctx.Done():
		fmt.Fprintln(c.out, "  FAIL: interrupted")
		return false
	}
}

func (c *checker) checkAssets() bool {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "[3/4] Sample assets in %s\n", c.sounds)

	c.bank = bank.Load(c.sounds, bank.DefaultLayout, audio.LoadWAV)
	missing := c.bank.Missing()
	for _, s := range c.bank.Slots() {
		if s.Clip == nil {
			fmt.Fprintf(c.out, "  missing %-8s %s\n", s.Name(), s.Path)
		}
	}
	if missing > 0 {
		fmt.Fprintf(c.out, "  FAIL: %d of %d samples missing (run: keybeat-synth -out %s)\n", missing, len(c.bank.Slots()), c.sounds)
		return false
	}
	fmt.Fprintf(c.out, "  PASS: %d samples loaded\n", len(c.bank.Slots()))
	return true
}

func (c *checker) checkAudio() bool {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "[4/4] Audio output")

	engine, err := c.newEngine(audio.NewController(1, false))
	if err != nil {
		fmt.Fprintf(c.out, "  FAIL: cannot open audio output: %v\n", err)
		return false
	}
	defer engine.Close()
	fmt.Fprintf(c.out, "  engine: %s\n", engine.Name())

	kick := c.bank.Slot(keymap.Space)
	if kick.Clip.Empty() {
		fmt.Fprintln(c.out, "  PASS: output opened (no kick sample to play)")
		return true
	}
	engine.Play(kick.Clip, kick.Volume)

	if !c.interactive {
		fmt.Fprintln(c.out, "  PASS: kick sample queued")
		return true
	}
	fmt.Fprint(c.out, "Did you hear a drum hit? [y/n]: ")
	confirm, _ := c.in.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm == "y" || confirm == "yes" {
		fmt.Fprintln(c.out, "  PASS: playback verified by user")
		return true
	}
	fmt.Fprintln(c.out, "  FAIL: playback not confirmed")
	return false
}
