package tmap

import (
	"image"
	"image/color"
	"time"
)

// Vec is a point or size in map pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// View is the region of the map being drawn, given by its center and size.
type View struct {
	Center Vec
	Size   Vec
}

// ViewAt returns a view whose top-left corner is at (x, y).
func ViewAt(x, y, w, h float64) View {
	return View{Center: Vec{x + w/2, y + h/2}, Size: Vec{w, h}}
}

// TopLeft returns the top-left corner of the view in map pixels.
func (v View) TopLeft() Vec {
	return Vec{v.Center.X - v.Size.X/2, v.Center.Y - v.Size.Y/2}
}

// Sprite is one textured quad handed to a DrawTarget.
type Sprite struct {
	Texture image.Image
	// sub rectangle of Texture to draw
	Source image.Rectangle
	// map pixel position of the top-left corner
	Position Vec
	// modulation, white at full alpha draws the texture unchanged
	Color color.NRGBA
}

// DrawTarget receives sprites. Effects may call Draw any number of times,
// including zero, for a single tile.
type DrawTarget interface {
	Draw(s *Sprite)
}

// TileFrame identifies which tile image to draw in place of a cell's own.
// It is only meaningful for comparison; the zero value is NoFrame.
type TileFrame struct {
	gid int
}

// NoFrame means "draw the cell's own tile".
var NoFrame = TileFrame{}

// FrameOf returns the frame for a global tile id.
func FrameOf(gid int) TileFrame {
	return TileFrame{gid: gid}
}

// GID returns the global tile id the frame draws.
func (f TileFrame) GID() int {
	return f.gid
}

// TileEffect controls how tiles are drawn. Every tile of every tileset has
// exactly one effect; unless assigned otherwise it is NoEffect.
type TileEffect interface {
	Apply(s *Sprite, t DrawTarget)
}

// FrameEffect is a TileEffect that also swaps the tile image.
type FrameEffect interface {
	TileEffect
	Frame() TileFrame
}

type noEffect struct{}

func (noEffect) Apply(s *Sprite, t DrawTarget) { t.Draw(s) }

func (noEffect) Frame() TileFrame { return NoFrame }

// NoEffect draws the tile unchanged.
var NoEffect TileEffect = noEffect{}

// frameOf returns the frame an effect selects, NoFrame if it has none.
func frameOf(e TileEffect) TileFrame {
	if fe, ok := e.(FrameEffect); ok {
		return fe.Frame()
	}
	return NoFrame
}

// AnimationFrame is one step of a tile animation.
type AnimationFrame struct {
	Frame    TileFrame
	Duration time.Duration
}

// Animation cycles through frames as time is advanced. Only frame selection
// is handled; the tile is otherwise drawn as is.
type Animation struct {
	frames  []AnimationFrame
	total   time.Duration
	elapsed time.Duration
}

// NewAnimation returns an animation over frames, starting at the first one.
func NewAnimation(frames []AnimationFrame) *Animation {
	a := &Animation{frames: frames}
	for _, f := range frames {
		a.total += f.Duration
	}
	return a
}

// Advance moves the animation forward by dt, wrapping at the end.
func (a *Animation) Advance(dt time.Duration) {
	if a.total <= 0 {
		return
	}
	a.elapsed = (a.elapsed + dt) % a.total
	if a.elapsed < 0 {
		a.elapsed += a.total
	}
}

func (a *Animation) Frame() TileFrame {
	if len(a.frames) == 0 {
		return NoFrame
	}
	if a.total <= 0 {
		return a.frames[0].Frame
	}
	t := a.elapsed
	for _, f := range a.frames {
		if t < f.Duration {
			return f.Frame
		}
		t -= f.Duration
	}
	return a.frames[len(a.frames)-1].Frame
}

func (a *Animation) Apply(s *Sprite, t DrawTarget) { t.Draw(s) }
