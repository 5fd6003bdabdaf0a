//go:build !gui

package main

func initGUI() {
	panic("keybeat: built without GUI support (rebuild with -tags gui)")
}

func newGUISurface() Surface { return headlessSurface{} }
