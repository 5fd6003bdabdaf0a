package main

import (
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"keybeat/audio"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m tuiModel, msg tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(tuiModel), cmd
}

func TestTUIKeys(t *testing.T) {
	ctrl := audio.NewController(0.5, false)
	m := newTUIModel(ctrl, "fake")

	m, _ = update(t, m, runeKey("m"))
	if !ctrl.Muted() || !m.state.Muted {
		t.Fatal("m should mute")
	}
	m, _ = update(t, m, runeKey("+"))
	if got := ctrl.Volume(); got < 0.59 || got > 0.61 {
		t.Errorf("volume after + = %v, want 0.6", got)
	}
	if !ctrl.Muted() {
		t.Error("volume change should not unmute")
	}
	for range 10 {
		m, _ = update(t, m, runeKey("-"))
	}
	if got := ctrl.Volume(); got != 0 {
		t.Errorf("volume after many - = %v, want 0", got)
	}

	_, cmd := update(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
}

func TestTUIView(t *testing.T) {
	ctrl := audio.NewController(0.8, false)
	m := newTUIModel(ctrl, "fake")
	if m.View() != "Loading..." {
		t.Error("view before size should be a placeholder")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, LabelTextMsg{Text: "Space"})
	m, _ = update(t, m, LabelColorMsg{Color: "#FF6B6B"})
	m, _ = update(t, m, KeysMsg{N: 3})

	v := m.View()
	for _, want := range []string{"Space", "LIVE", "80%", "keys 3"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}

	ctrl.ToggleMute()
	m, _ = update(t, m, StateMsg{})
	if !strings.Contains(m.View(), "MUTED") {
		t.Error("view should show muted state")
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{0x4E, 0xCD, 0xC4, 0xFF}); got != "#4ECDC4" {
		t.Errorf("hexColor = %q", got)
	}
}
