package main

import (
	"context"
	"image/color"

	"keybeat/display"
)

// Surface abstracts the display layer so the TUI, the fyne window and
// headless mode receive the same key label updates.
type Surface interface {
	Name() string
	Renderer() display.Renderer
	// Keys reports the running session key count.
	Keys(n uint64)
	// Run blocks until the user quits or ctx is cancelled.
	Run(ctx context.Context) error
}

type headlessSurface struct{}

func (headlessSurface) Name() string               { return "headless" }
func (headlessSurface) Renderer() display.Renderer { return nopRenderer{} }
func (headlessSurface) Keys(uint64)                {}

func (headlessSurface) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

type nopRenderer struct{}

func (nopRenderer) SetText(string)       {}
func (nopRenderer) SetColor(color.Color) {}
func (nopRenderer) SetScale(float32)     {}
