package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	diagLog   zerolog.Logger
	diagFile  *os.File
	logMu     sync.Mutex
	logReady  bool
	pid       int
	sessionID string
	dir       string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: KEYBEAT_LOG_PATH environment variable
	if envPath := os.Getenv("KEYBEAT_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()
	sessionID = uuid.NewString()

	var err error
	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().
		Timestamp().
		Int("pid", pid).
		Str("session", sessionID[:8]).
		Logger()

	logReady = true
	return nil
}

// Session returns the id stamped on every line of the current session.
func Session() string {
	logMu.Lock()
	defer logMu.Unlock()
	return sessionID
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(engine, surface, sounds string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("engine", engine).
		Str("surface", surface).
		Str("sounds", sounds).
		Msg("session_start")
}

// SampleMissing records a bank slot whose file could not be loaded. The slot
// stays silent for the rest of the session.
func SampleMissing(slot, path string, err error) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("slot", slot).
		Str("path", path).
		Err(err).
		Msg("sample_missing")
}

func HookStart(backend string, devices int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("backend", backend).
		Int("devices", devices).
		Msg("hook_start")
}

func SessionEnd(keys, dropped uint64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Uint64("keys", keys).
		Uint64("dropped", dropped).
		Msg("session_end")
}
