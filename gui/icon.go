package gui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"keybeat/display"
)

const iconSize = 22

// trayPNG draws the tray icon: a ring segmented into the palette colours
// around a dark centre.
func trayPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	center := float64(iconSize) / 2
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) - center + 0.5
			dy := float64(y) - center + 0.5
			dist := math.Sqrt(dx*dx + dy*dy)

			switch {
			case dist < 4:
				img.Set(x, y, color.RGBA{240, 240, 240, 255})
			case dist < 9:
				angle := math.Atan2(dy, dx) + math.Pi
				seg := int(angle/(2*math.Pi)*float64(len(display.Palette))) % len(display.Palette)
				img.Set(x, y, display.Palette[seg])
			case dist < 10:
				img.Set(x, y, color.RGBA{18, 18, 18, 255})
			}
		}
	}

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}
