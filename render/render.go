/*
Package render draws maps to images.

Target implements tmap.DrawTarget on top of a gg.Context so that

	t := render.NewTarget(view)
	m.Draw(t, view)
	t.SavePNG("out.png")

writes exactly what the view covers.
*/
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"

	"github.com/voidshard/tmap"
)

// Target rasterises sprites into an image the size of a view.
type Target struct {
	dc     *gg.Context
	origin tmap.Vec
}

// NewTarget returns a transparent target covering v.
func NewTarget(v tmap.View) *Target {
	w := int(math.Ceil(v.Size.X))
	h := int(math.Ceil(v.Size.Y))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Target{dc: gg.NewContext(w, h), origin: v.TopLeft()}
}

// Draw composites one sprite over what is already drawn.
func (t *Target) Draw(s *tmap.Sprite) {
	if s == nil || s.Texture == nil || s.Color.A == 0 {
		return
	}
	src := s.Source.Intersect(s.Texture.Bounds())
	if src.Empty() {
		return
	}

	tile := image.NewNRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(tile, tile.Bounds(), s.Texture, src.Min, draw.Src)
	modulate(tile, s.Color)

	x := int(math.Floor(s.Position.X - t.origin.X))
	y := int(math.Floor(s.Position.Y - t.origin.Y))
	t.dc.DrawImage(tile, x, y)
}

// Image returns what has been drawn so far.
func (t *Target) Image() image.Image {
	return t.dc.Image()
}

// SavePNG writes the image to path.
func (t *Target) SavePNG(path string) error {
	return t.dc.SavePNG(path)
}

// modulate multiplies every pixel by c, white leaves it as is.
func modulate(im *image.NRGBA, c color.NRGBA) {
	if c == (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		return
	}
	for i := 0; i < len(im.Pix); i += 4 {
		im.Pix[i+0] = mul(im.Pix[i+0], c.R)
		im.Pix[i+1] = mul(im.Pix[i+1], c.G)
		im.Pix[i+2] = mul(im.Pix[i+2], c.B)
		im.Pix[i+3] = mul(im.Pix[i+3], c.A)
	}
}

func mul(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

// Scale resizes im by factor. Pixel art stays sharp.
func Scale(im image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return im
	}
	b := im.Bounds()
	return resize.Resize(
		uint(math.Round(float64(b.Dx())*factor)),
		uint(math.Round(float64(b.Dy())*factor)),
		im,
		resize.NearestNeighbor,
	)
}

// SavePNG writes any image to path as a png.
func SavePNG(path string, im image.Image) error {
	return gg.SavePNG(path, im)
}
