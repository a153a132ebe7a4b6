package tmap

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Cell is one grid position of a tile layer. Tileset is nil for an empty
// cell or a gid no tileset owns.
type Cell struct {
	GID     int
	Tileset *Tileset
}

// Local returns the cell's id within its tileset.
func (c Cell) Local() int {
	if c.Tileset == nil {
		return 0
	}
	return c.GID - c.Tileset.BeginGID()
}

// TileLayer is a grid of tiles.
type TileLayer struct {
	name       string
	width      int
	height     int
	tileWidth  int
	tileHeight int
	opacity    int
	properties *Properties

	cells       []Cell
	registry    *Registry
	translation Vec
}

const maxOpacity = 255

func (l *TileLayer) Name() string { return l.name }

func (l *TileLayer) Width() int { return l.width }

func (l *TileLayer) Height() int { return l.height }

func (l *TileLayer) TileWidth() int { return l.tileWidth }

func (l *TileLayer) TileHeight() int { return l.tileHeight }

// Opacity returns the layer's alpha in [0, 255].
func (l *TileLayer) Opacity() int { return l.opacity }

// Properties returns the layer's own properties.
func (l *TileLayer) Properties() *Properties { return l.properties }

func (l *TileLayer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// Cell returns the cell at x,y, the zero Cell when off the grid.
func (l *TileLayer) Cell(x, y int) Cell {
	if !l.inBounds(x, y) {
		return Cell{}
	}
	return l.cells[y*l.width+x]
}

func (l *TileLayer) GID(x, y int) int {
	return l.Cell(x, y).GID
}

// At returns the properties of the tile at x,y or nil if it has none.
func (l *TileLayer) At(x, y int) *Properties {
	c := l.Cell(x, y)
	if c.Tileset == nil {
		return nil
	}
	return c.Tileset.PropertiesOn(c.Local())
}

// SetGID places a tile. The gid must belong to one of the map's tilesets.
func (l *TileLayer) SetGID(x, y, gid int) error {
	if !l.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) on layer %q of %dx%d", ErrOutOfRange, x, y, l.name, l.width, l.height)
	}

	index := y*l.width + x
	if gid == NoTile {
		l.cells[index] = Cell{}
		return nil
	}

	ts := l.registry.Find(gid)
	if ts == nil {
		return fmt.Errorf("%w: gid %d has no tileset", ErrOutOfRange, gid)
	}
	l.cells[index] = Cell{GID: gid, Tileset: ts}
	return nil
}

// Draw sends one sprite per visible tile through that tile's effect.
// Cells with no tileset are skipped.
func (l *TileLayer) Draw(t DrawTarget, v View) {
	if l.opacity == 0 {
		return
	}

	r := DrawRange(v.Center, v.Size, Vec{float64(l.tileWidth), float64(l.tileHeight)}, l.width, l.height)
	for y := r.Top; y < r.Top+r.Height; y++ {
		for x := r.Left; x < r.Left+r.Width; x++ {
			c := l.cells[y*l.width+x]
			if c.Tileset == nil {
				continue
			}

			effect := c.Tileset.EffectFor(c.GID)
			local := c.Local()
			if frame := frameOf(effect); frame != NoFrame {
				if !c.Tileset.Owns(frame.GID()) {
					continue
				}
				local = frame.GID() - c.Tileset.BeginGID()
			}
			src, err := c.Tileset.TextureRect(local)
			if err != nil {
				continue
			}

			effect.Apply(&Sprite{
				Texture: c.Tileset.Image(),
				Source:  src,
				Position: Vec{
					X: math.Floor(float64(x*l.tileWidth) + l.translation.X),
					Y: math.Floor(float64(y*l.tileHeight) + l.translation.Y),
				},
				Color: color.NRGBA{R: 255, G: 255, B: 255, A: uint8(l.opacity)},
			}, t)
		}
	}
}

// ColorLayer fills the view with the map's background color.
type ColorLayer struct {
	color color.NRGBA
}

func (c *ColorLayer) Name() string { return "background" }

func (c *ColorLayer) Color() color.NRGBA { return c.color }

func (c *ColorLayer) Draw(t DrawTarget, v View) {
	w, h := int(math.Ceil(v.Size.X)), int(math.Ceil(v.Size.Y))
	if w <= 0 || h <= 0 {
		return
	}
	t.Draw(&Sprite{
		Texture:  image.NewUniform(c.color),
		Source:   image.Rect(0, 0, w, h),
		Position: v.TopLeft(),
		Color:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	})
}

// opacityFrom converts Tiled's [0, 1] opacity to [0, 255].
func opacityFrom(v *string, where string) (int, error) {
	if v == nil {
		return maxOpacity, nil
	}
	f, err := optionalFloat(*v, 1, "opacity", where)
	if err != nil {
		return 0, err
	}
	o := int(math.Round(f * maxOpacity))
	if o < 0 {
		o = 0
	}
	if o > maxOpacity {
		o = maxOpacity
	}
	return o, nil
}

// loadTileLayer decodes a <layer> and resolves its cells against reg.
func loadTileLayer(x *xmlLayer, tileWidth, tileHeight int, reg *Registry) (*TileLayer, error) {
	where := fmt.Sprintf("layer %q", x.Name)
	width, err := requireInt(x.Width, "width", where)
	if err != nil {
		return nil, err
	}
	height, err := requireInt(x.Height, "height", where)
	if err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrMalformedInput, where, width, height)
	}
	opacity, err := opacityFrom(x.Opacity, where)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(x.Properties, false, where)
	if err != nil {
		return nil, err
	}
	if x.Data == nil {
		return nil, fmt.Errorf("%w: %s has no data", ErrMalformedInput, where)
	}

	gids, err := decodeGIDs(width, height, x.Data, x.Name)
	if err != nil {
		return nil, err
	}

	return &TileLayer{
		name:       x.Name,
		width:      width,
		height:     height,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		opacity:    opacity,
		properties: props,
		cells:      resolve(gids, reg),
		registry:   reg,
	}, nil
}
