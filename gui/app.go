//go:build gui

package gui

import (
	"fmt"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/go-gl/glfw/v3.3/glfw"

	"keybeat/audio"
	"keybeat/display"
)

const (
	windowWidth  = 450
	windowHeight = 550
)

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	label   *KeyLabel
	mute    *widget.Button
	slider  *widget.Slider
	status  *widget.Label
	ctrl    *audio.Controller
	onReady func()
	onQuit  func()

	visible atomic.Bool
	// native is set once the glfw driver owns the window.
	native atomic.Bool
}

// NewApp prepares the window. onReady runs on its own goroutine once the
// event loop is about to start; onQuit runs when the tray Quit is chosen.
func NewApp(ctrl *audio.Controller, onReady, onQuit func()) *App {
	return &App{ctrl: ctrl, onReady: onReady, onQuit: onQuit, label: NewKeyLabel()}
}

// Renderer is the key label the mapper draws on.
func (a *App) Renderer() display.Renderer {
	return a.label
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.keybeat.gui")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	if desk, ok := a.fyneApp.(desktop.App); ok {
		icon := fyne.NewStaticResource("tray.png", trayPNG())
		menu := fyne.NewMenu("KeyBeat",
			fyne.NewMenuItem("Show App", a.Show),
			fyne.NewMenuItem("Quit", a.Quit),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(icon)
		a.fyneApp.SetIcon(icon)
	}

	a.window = a.fyneApp.NewWindow("KeyBeat")

	a.mute = widget.NewButton("Mute", func() {
		a.ctrl.ToggleMute()
	})
	a.slider = widget.NewSlider(0, 1)
	a.slider.Step = 0.01
	a.slider.OnChanged = func(v float64) {
		a.ctrl.SetVolume(v)
	}
	a.status = widget.NewLabel("")
	a.status.Alignment = fyne.TextAlignCenter

	controls := container.NewVBox(
		a.mute,
		widget.NewLabel("Volume"),
		a.slider,
		a.status,
	)
	a.window.SetContent(container.NewBorder(nil, controls, nil, nil, a.label))
	a.window.Resize(fyne.NewSize(windowWidth, windowHeight))
	a.window.SetFixedSize(true)

	// Closing only hides; the tray Quit ends the process.
	a.window.SetCloseIntercept(a.Hide)

	a.applyState(a.ctrl.State())
	a.ctrl.OnChange(func(s audio.State) {
		fyne.Do(func() { a.applyState(s) })
	})

	// Minimising hides too. fyne has no minimise event, so hook glfw's
	// iconify callback once the driver has created the window.
	a.fyneApp.Lifecycle().SetOnStarted(func() {
		glfwWin := glfw.GetCurrentContext()
		if glfwWin == nil {
			return
		}
		a.native.Store(true)
		glfwWin.SetAttrib(glfw.FocusOnShow, glfw.False)
		glfwWin.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
			a.iconified(iconified)
		})
	})

	a.window.Show()
	a.visible.Store(true)

	go a.onReady()

	a.fyneApp.Run()
	return nil
}

// applyState must run on the UI thread.
func (a *App) applyState(s audio.State) {
	if s.Muted {
		a.mute.SetText("Unmute")
		a.mute.Importance = widget.DangerImportance
	} else {
		a.mute.SetText("Mute")
		a.mute.Importance = widget.MediumImportance
	}
	a.mute.Refresh()
	if a.slider.Value != s.Volume {
		a.slider.SetValue(s.Volume)
	}
	a.status.SetText(fmt.Sprintf("volume %d%%", int(s.Volume*100+0.5)))
}

// Quit hands teardown to onQuit when set; the owner exits the process.
func (a *App) Quit() {
	if a.onQuit != nil {
		a.onQuit()
		return
	}
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}

func (a *App) Show() {
	fyne.Do(func() {
		if a.window == nil {
			return
		}
		a.window.Show()
		if a.native.Load() {
			if glfwWin := glfw.GetCurrentContext(); glfwWin != nil && glfwWin.GetAttrib(glfw.Iconified) == glfw.True {
				glfwWin.Restore()
			}
		}
		a.visible.Store(true)
	})
}

func (a *App) Hide() {
	fyne.Do(func() {
		if a.window != nil {
			a.window.Hide()
			a.visible.Store(false)
		}
	})
}

// Visible reports whether the window is shown.
func (a *App) Visible() bool {
	return a.visible.Load()
}

func (a *App) iconified(minimised bool) {
	if minimised {
		a.Hide()
	}
}
