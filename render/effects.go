package render

import (
	"image/color"

	"github.com/voidshard/tmap"
)

// Tint multiplies the color of every tile it is bound to.
type Tint struct {
	Color color.NRGBA
}

func (e Tint) Apply(s *tmap.Sprite, t tmap.DrawTarget) {
	out := *s
	out.Color = color.NRGBA{
		R: mul(s.Color.R, e.Color.R),
		G: mul(s.Color.G, e.Color.G),
		B: mul(s.Color.B, e.Color.B),
		A: mul(s.Color.A, e.Color.A),
	}
	t.Draw(&out)
}

// Hide skips drawing.
type Hide struct{}

func (Hide) Apply(*tmap.Sprite, tmap.DrawTarget) {}

// Swap draws a different tile in place of the bound ones.
type Swap struct {
	To tmap.TileFrame
}

func (e Swap) Apply(s *tmap.Sprite, t tmap.DrawTarget) { t.Draw(s) }

func (e Swap) Frame() tmap.TileFrame { return e.To }
