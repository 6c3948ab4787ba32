package ui

import (
	"context"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// variantTheme pins the default theme to one variant, whatever the OS
// reports.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func newVariantTheme(dark bool) fyne.Theme {
	v := theme.VariantLight
	if dark {
		v = theme.VariantDark
	}
	return &variantTheme{Theme: theme.DefaultTheme(), variant: v}
}

// Color implements fyne.Theme.
func (t *variantTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, t.variant)
}

// palette is one start/end pair of the background gradient.
type palette struct {
	start, end color.Color
}

var (
	lightPalettes = [2]palette{
		{start: color.NRGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}, end: color.NRGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}},
		{start: color.NRGBA{R: 0xff, G: 0xc0, B: 0xcb, A: 0xff}, end: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	}
	darkPalettes = [2]palette{
		{start: color.NRGBA{R: 0x4b, G: 0x00, B: 0x82, A: 0xff}, end: color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}},
		{start: color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, end: color.NRGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}},
	}
)

func paletteFor(dark bool, phase int) palette {
	if dark {
		return darkPalettes[phase%2]
	}
	return lightPalettes[phase%2]
}

// Gradient is the cosmetic animated background. It has its own timer,
// independent of the age refresher.
type Gradient struct {
	Rect *canvas.LinearGradient

	mu    sync.Mutex
	dark  bool
	phase int
}

// NewGradient returns a light gradient in its first phase.
func NewGradient() *Gradient {
	p := paletteFor(false, 0)
	return &Gradient{
		Rect: canvas.NewLinearGradient(p.start, p.end, config.GradientAngle),
	}
}

// SetDark switches palette family, keeping the current phase.
func (g *Gradient) SetDark(dark bool) {
	g.mu.Lock()
	g.dark = dark
	g.mu.Unlock()
	g.apply()
}

// Step alternates to the other palette of the current family.
func (g *Gradient) Step() {
	g.mu.Lock()
	g.phase = (g.phase + 1) % 2
	g.mu.Unlock()
	g.apply()
}

// Colors returns the colors currently shown.
func (g *Gradient) Colors() (start, end color.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := paletteFor(g.dark, g.phase)
	return p.start, p.end
}

// Run steps the gradient every interval until ctx is done.
func (g *Gradient) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(g.Step)
		}
	}
}

func (g *Gradient) apply() {
	start, end := g.Colors()
	g.Rect.StartColor = start
	g.Rect.EndColor = end
	g.Rect.Refresh()
}
