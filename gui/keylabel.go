//go:build gui

package gui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	labelTextSize = 64
	labelHeight   = 200
)

// KeyLabel is the big coloured key name. Setters may be called from any
// goroutine; they schedule a refresh on the UI thread.
type KeyLabel struct {
	widget.BaseWidget
	mu    sync.Mutex
	text  string
	color color.Color
	scale float32
}

func NewKeyLabel() *KeyLabel {
	l := &KeyLabel{
		text:  "Press any key",
		color: color.RGBA{200, 200, 200, 255},
		scale: 1,
	}
	l.ExtendBaseWidget(l)
	return l
}

func (l *KeyLabel) SetText(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
	l.refresh()
}

func (l *KeyLabel) SetColor(c color.Color) {
	l.mu.Lock()
	l.color = c
	l.mu.Unlock()
	l.refresh()
}

func (l *KeyLabel) SetScale(s float32) {
	l.mu.Lock()
	l.scale = s
	l.mu.Unlock()
	l.refresh()
}

func (l *KeyLabel) refresh() {
	fyne.Do(func() {
		l.Refresh()
	})
}

func (l *KeyLabel) MinSize() fyne.Size {
	return fyne.NewSize(0, labelHeight)
}

func (l *KeyLabel) CreateRenderer() fyne.WidgetRenderer {
	t := canvas.NewText("", color.White)
	t.Alignment = fyne.TextAlignCenter
	t.TextStyle = fyne.TextStyle{Bold: true}
	r := &keyLabelRenderer{label: l, text: t}
	r.Refresh()
	return r
}

type keyLabelRenderer struct {
	label *KeyLabel
	text  *canvas.Text
	size  fyne.Size
}

func (r *keyLabelRenderer) Layout(size fyne.Size) {
	r.size = size
	r.place()
}

// place centres the text; scaling grows it around the middle.
func (r *keyLabelRenderer) place() {
	ts := r.text.MinSize()
	r.text.Resize(fyne.NewSize(r.size.Width, ts.Height))
	r.text.Move(fyne.NewPos(0, (r.size.Height-ts.Height)/2))
}

func (r *keyLabelRenderer) MinSize() fyne.Size {
	return r.label.MinSize()
}

func (r *keyLabelRenderer) Refresh() {
	r.label.mu.Lock()
	r.text.Text = r.label.text
	r.text.Color = r.label.color
	r.text.TextSize = labelTextSize * r.label.scale
	r.label.mu.Unlock()

	r.place()
	r.text.Refresh()
}

func (r *keyLabelRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.text}
}

func (r *keyLabelRenderer) Destroy() {}
