package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"keybeat/audio"
	"keybeat/bank"
	"keybeat/bridge"
	"keybeat/display"
	"keybeat/doctor"
	"keybeat/keyhook"
	"keybeat/log"
	"keybeat/mapper"
	"keybeat/shortcut"
	"keybeat/shutdown"
)

var version = "dev"

const bgEnv = "_KEYBEAT_BG"

// guiMode is set by initGUI before run starts.
var guiMode bool

// ctrl is shared with the GUI, which is built before flags are parsed.
var ctrl = audio.NewController(1, false)

var shutdownOnce sync.Once

func gracefulShutdown(m *mapper.Mapper, br *bridge.Bridge, hk keyhook.Hook, engine audio.Engine) {
	shutdownOnce.Do(func() {
		hk.Unregister()
		br.Close()
		log.SessionEnd(m.Keys(), br.Dropped())
		engine.Close()
		log.Close()
		os.Exit(0)
	})
}

func initCrashLog() {
	dir, err := log.ResolveDir(logPathArg())
	if err != nil {
		return
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		return
	}
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}
}

// logPathArg peeks at -logpath before flag.Parse so crash output lands in
// the same directory as the diagnostics log.
func logPathArg() string {
	args := os.Args[1:]
	for i, a := range args {
		switch {
		case (a == "-logpath" || a == "--logpath") && i+1 < len(args):
			return args[i+1]
		case len(a) > 9 && a[:9] == "-logpath=":
			return a[9:]
		case len(a) > 10 && a[:10] == "--logpath=":
			return a[10:]
		}
	}
	return ""
}

func soundsDefault() string {
	if d := os.Getenv("KEYBEAT_SOUNDS"); d != "" {
		return d
	}
	return "sounds"
}

func run() {
	soundsFlag := flag.String("sounds", soundsDefault(), "Directory holding the sample WAV files (env KEYBEAT_SOUNDS)")
	volumeFlag := flag.Float64("volume", 1.0, "Initial master volume, 0.0 to 1.0")
	mutedFlag := flag.Bool("muted", false, "Start muted")
	repeatFlag := flag.Bool("repeat", keyhook.ForwardRepeats, "Trigger on keyboard auto-repeat while a key is held (-repeat=false: presses only)")
	muteKeyFlag := flag.Bool("mutekey", true, "Register "+shortcut.Label+" as a global mute toggle")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	flag.Bool("gui", false, "Run with a desktop window (requires -tags gui)")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	if *versionFlag {
		fmt.Printf("keybeat %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*soundsFlag))
	}

	ctrl.SetVolume(*volumeFlag)
	if *mutedFlag != ctrl.Muted() {
		ctrl.ToggleMute()
	}

	if *testFlag {
		runTestMode(*soundsFlag)
		return
	}

	// Daemonize in headless mode: re-exec in background, return shell prompt
	if !guiMode && !*tuiFlag && os.Getenv(bgEnv) == "" {
		exe, _ := os.Executable()
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Env = append(os.Environ(), bgEnv+"=1")
		devnull, _ := os.Open(os.DevNull)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("keybeat running in background (pid %d)\n", cmd.Process.Pid)
		os.Exit(0)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	engine := audio.Open(ctrl)
	sounds := bank.Load(*soundsFlag, bank.DefaultLayout, audio.LoadWAV)
	if n := sounds.Missing(); n > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d of %d samples missing in %s (run keybeat-synth -out %s)\n",
			n, len(sounds.Slots()), *soundsFlag, *soundsFlag)
	}

	var surface Surface
	switch {
	case guiMode:
		surface = newGUISurface()
	case *tuiFlag:
		surface = newTUISurface(ctrl, engine.Name())
	default:
		surface = headlessSurface{}
	}

	flash := display.New(surface.Renderer())
	m := mapper.New(sounds, engine, flash)

	br := bridge.New()
	br.OnGlobalKeyDown(func(ev keyhook.Event) {
		m.Handle(ev)
		surface.Keys(m.Keys())
	})

	hk := keyhook.New(*repeatFlag)
	if err := br.Start(hk); err != nil {
		log.Errorf("keyboard hook error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.SessionStart(engine.Name(), surface.Name(), *soundsFlag)

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	if *muteKeyFlag {
		mk := shortcut.New()
		if err := mk.Register(); err != nil {
			log.Warnf("mute shortcut unavailable: %v", err)
		} else {
			defer mk.Unregister()
			go shortcut.Watch(ctx, mk, func() {
				muted := ctrl.ToggleMute()
				log.Infof("mute_shortcut muted=%v", muted)
			})
		}
	}

	if err := surface.Run(ctx); err != nil {
		log.Errorf("%s error: %v", surface.Name(), err)
	}
	flash.Stop()
	gracefulShutdown(m, br, hk, engine)
}
