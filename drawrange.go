package tmap

import "math"

// Rect is a rectangle of tile indices.
type Rect struct {
	Left, Top, Width, Height int
}

// Empty reports whether the rectangle covers no tiles.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// DrawRange returns the tiles of a gridWidth x gridHeight layer, with tiles of
// the given size, that a view centered at center with the given size
// overlaps. The result always lies within the grid, or is empty.
func DrawRange(center, size, tile Vec, gridWidth, gridHeight int) Rect {
	if tile.X == 0 || tile.Y == 0 {
		return Rect{}
	}

	fx := center.X - size.X/2
	fy := center.Y - size.Y/2

	r := Rect{
		Left: int(math.Floor(fx / tile.X)),
		Top:  int(math.Floor(fy / tile.Y)),
	}
	if r.Left >= gridWidth || r.Top >= gridHeight {
		return Rect{}
	}

	// how far into its first tile the view starts
	off := Vec{
		X: fx - float64(r.Left)*tile.X,
		Y: fy - float64(r.Top)*tile.Y,
	}
	r.Width = int(math.Ceil((size.X + off.X) / tile.X))
	r.Height = int(math.Ceil((size.Y + off.Y) / tile.Y))

	if r.Left < 0 {
		r.Width += r.Left
		r.Left = 0
	}
	if r.Top < 0 {
		r.Height += r.Top
		r.Top = 0
	}
	if r.Left+r.Width > gridWidth {
		r.Width = gridWidth - r.Left
	}
	if r.Top+r.Height > gridHeight {
		r.Height = gridHeight - r.Top
	}
	if r.Width > gridWidth {
		r.Width = gridWidth
	}
	if r.Height > gridHeight {
		r.Height = gridHeight
	}
	if r.Empty() {
		return Rect{}
	}
	return r
}
