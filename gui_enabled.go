//go:build gui

package main

import (
	"context"
	"runtime"

	"keybeat/display"
	"keybeat/gui"
)

var guiApp *gui.App
var guiQuit = make(chan struct{})

func initGUI() {
	guiMode = true

	// Lock this goroutine to OS thread for Fyne/GLFW
	runtime.LockOSThread()

	guiApp = gui.NewApp(ctrl, run, func() {
		select {
		case <-guiQuit:
		default:
			close(guiQuit)
		}
	})
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

type guiSurface struct{ app *gui.App }

func newGUISurface() Surface { return guiSurface{app: guiApp} }

func (s guiSurface) Name() string               { return "gui" }
func (s guiSurface) Renderer() display.Renderer { return s.app.Renderer() }
func (s guiSurface) Keys(uint64)                {}

// Run waits for the tray Quit; closing the window only hides it.
func (s guiSurface) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-guiQuit:
	}
	return nil
}
