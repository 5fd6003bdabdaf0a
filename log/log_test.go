package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func readDiag(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("KEYBEAT_LOG_PATH", "/tmp/keybeat-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/keybeat-env-log" {
		t.Errorf("got %q, want /tmp/keybeat-env-log", got)
	}
}

func TestResolveDirFlagBeatsEnv(t *testing.T) {
	t.Setenv("KEYBEAT_LOG_PATH", "/tmp/keybeat-env-log")
	got, err := ResolveDir("/tmp/flag")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/flag" {
		t.Errorf("got %q, want /tmp/flag", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("KEYBEAT_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "keybeat") {
		t.Errorf("default dir %q should mention keybeat", got)
	}
}

func TestInitCreatesFile(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "diagnostics_log.txt")); err != nil {
		t.Errorf("diagnostics_log.txt not created: %v", err)
	}
	if len(Session()) != 36 {
		t.Errorf("session id %q is not a uuid", Session())
	}
}

func TestStructuredEvents(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	SessionStart("fake", "tui", "sounds")
	SampleMissing("kick", "sounds/kick.wav", errors.New("no such file"))
	SessionEnd(12, 3)
	Close()

	out := readDiag(t, tmp)
	for _, want := range []string{
		"session_start", "engine=fake", "surface=tui",
		"sample_missing", "slot=kick",
		"session_end", "keys=12", "dropped=3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics log missing %q:\n%s", want, out)
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	Infof("dropped=%d", 1)
	Warnf("late %s", "warn")
	Errorf("late %s", "error")
	SessionEnd(1, 0)
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
