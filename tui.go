package main

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keybeat/audio"
	"keybeat/display"
	"keybeat/shortcut"
)

// TUI message types
type LabelTextMsg struct{ Text string }
type LabelColorMsg struct{ Color string } // "#RRGGBB"
type LabelScaleMsg struct{ Scale float32 }
type StateMsg struct{} // controller changed; re-read it
type KeysMsg struct{ N uint64 }

const volumeStep = 0.1

type tuiModel struct {
	ctrl          *audio.Controller
	engine        string
	text          string
	color         string
	scale         float32
	state         audio.State
	keys          uint64
	width, height int
}

func newTUIModel(ctrl *audio.Controller, engine string) tuiModel {
	return tuiModel{
		ctrl:   ctrl,
		engine: engine,
		text:   "Press any key",
		color:  "#C8C8C8",
		scale:  display.NormalScale,
		state:  ctrl.State(),
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "m":
			m.ctrl.ToggleMute()
		case "+", "=":
			m.ctrl.SetVolume(m.ctrl.Volume() + volumeStep)
		case "-", "_":
			m.ctrl.SetVolume(m.ctrl.Volume() - volumeStep)
		}
		m.state = m.ctrl.State()

	case LabelTextMsg:
		m.text = msg.Text

	case LabelColorMsg:
		m.color = msg.Color

	case LabelScaleMsg:
		m.scale = msg.Scale

	case StateMsg:
		m.state = m.ctrl.State()

	case KeysMsg:
		m.keys = msg.N
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	pulsed := m.scale > display.NormalScale
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.color)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.color)).
		Padding(1, 4).
		Bold(pulsed)
	if pulsed {
		labelStyle = labelStyle.Padding(1, 5).BorderStyle(lipgloss.ThickBorder())
	}
	label := labelStyle.Render(m.text)

	var status string
	if m.state.Muted {
		status = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Render("● MUTED")
	} else {
		status = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render("○ LIVE")
	}
	status += lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render(fmt.Sprintf("  volume %s %3d%%  keys %d", volumeBar(m.state.Volume, 10), percent(m.state.Volume), m.keys))

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	help := boldStyle.Render("m") + helpStyle.Render(" mute  ") +
		boldStyle.Render("+/-") + helpStyle.Render(" volume  ") +
		boldStyle.Render(shortcut.Label) + helpStyle.Render(" global mute  ") +
		boldStyle.Render("q") + helpStyle.Render(" quit")
	footer := helpStyle.Render("keybeat " + version + " [" + m.engine + "]")

	body := lipgloss.JoinVertical(lipgloss.Center, label, "", status, "", help, footer)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func percent(v float64) int {
	return int(v*100 + 0.5)
}

func volumeBar(v float64, width int) string {
	filled := int(v*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// tuiSurface forwards label updates into the Bubble Tea program.
type tuiSurface struct {
	p *tea.Program
}

func newTUISurface(ctrl *audio.Controller, engine string) *tuiSurface {
	s := &tuiSurface{p: tea.NewProgram(newTUIModel(ctrl, engine), tea.WithAltScreen())}
	// Changes made inside Update would deadlock a synchronous Send.
	ctrl.OnChange(func(audio.State) {
		go s.p.Send(StateMsg{})
	})
	return s
}

func (s *tuiSurface) Name() string               { return "tui" }
func (s *tuiSurface) Renderer() display.Renderer { return s }
func (s *tuiSurface) Keys(n uint64)              { s.p.Send(KeysMsg{N: n}) }

func (s *tuiSurface) SetText(text string)    { s.p.Send(LabelTextMsg{Text: text}) }
func (s *tuiSurface) SetColor(c color.Color) { s.p.Send(LabelColorMsg{Color: hexColor(c)}) }
func (s *tuiSurface) SetScale(v float32)     { s.p.Send(LabelScaleMsg{Scale: v}) }

func (s *tuiSurface) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.p.Quit()
	}()
	_, err := s.p.Run()
	return err
}
