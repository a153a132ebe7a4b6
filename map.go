/* file holds the loaded map & the functions that load it.
 */
package tmap

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
)

// OrientationOrthogonal is the only map orientation we support.
const OrientationOrthogonal = "orthogonal"

// Map is a loaded TMX map.
type Map struct {
	width      int // in tiles
	height     int // in tiles
	tileWidth  int // in pixels
	tileHeight int // in pixels

	properties *Properties
	registry   *Registry
	background *ColorLayer
	layers     []Layer
	tileLayers []*TileLayer
	objects    []*MapObject

	logger *log.Logger
}

// Open loads the map at path. Tilesets & images are found relative to it.
func Open(path string, cfg *Config) (*Map, error) {
	cfg = cfg.withDefaults()
	cfg.Logger.Printf("loading map %s", path)

	x := &xmlMap{}
	if err := loadDocument(path, x); err != nil {
		return nil, err
	}
	return build(x, filepath.Dir(path), cfg)
}

// Decode loads a TMX map from r. Relative paths are relative to the
// working directory.
func Decode(r io.Reader, cfg *Config) (*Map, error) {
	cfg = cfg.withDefaults()

	x := &xmlMap{}
	if err := xml.NewDecoder(r).Decode(x); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return build(x, "", cfg)
}

// build turns a parsed document into a Map. Nothing is shared with any other
// map until it returns successfully.
func build(x *xmlMap, dir string, cfg *Config) (*Map, error) {
	m := &Map{registry: &Registry{}, logger: cfg.Logger}

	var err error
	for _, a := range []struct {
		name string
		v    *string
		dst  *int
	}{
		{"width", x.Width, &m.width},
		{"height", x.Height, &m.height},
		{"tilewidth", x.TileWidth, &m.tileWidth},
		{"tileheight", x.TileHeight, &m.tileHeight},
	} {
		*a.dst, err = requireInt(a.v, a.name, "map")
		if err != nil {
			return nil, err
		}
	}
	if x.Orientation == nil {
		return nil, fmt.Errorf("%w: %q on map", ErrMissingAttribute, "orientation")
	}
	if *x.Orientation != OrientationOrthogonal {
		return nil, fmt.Errorf("%w: orientation %q", ErrUnsupportedFormat, *x.Orientation)
	}

	m.properties, err = readProperties(x.Properties, false, "map")
	if err != nil {
		return nil, err
	}

	bg, err := parseColor(x.BackgroundColor)
	if err != nil {
		return nil, err
	}
	m.background = &ColorLayer{color: bg}
	m.layers = append(m.layers, m.background)

	loader := &tilesetLoader{cfg: cfg}
	for _, xts := range x.Tilesets {
		ts, err := loader.load(xts, dir)
		if err != nil {
			return nil, err
		}
		m.registry.Add(ts)
	}
	if err := m.registry.Sort(); err != nil {
		return nil, err
	}

	for _, xl := range x.TileLayers {
		tl, err := loadTileLayer(xl, m.tileWidth, m.tileHeight, m.registry)
		if err != nil {
			return nil, err
		}
		m.tileLayers = append(m.tileLayers, tl)
		m.layers = append(m.layers, tl)
	}

	for _, group := range x.ObjectGroups {
		for _, xo := range group.Objects {
			obj, err := loadObject(xo, group.Name, m.registry)
			if err != nil {
				return nil, err
			}
			m.objects = append(m.objects, obj)
		}
	}

	m.logger.Printf("loaded %dx%d map: %d tilesets, %d layers, %d objects",
		m.width, m.height, m.registry.Len(), len(m.tileLayers), len(m.objects))
	return m, nil
}

// parseColor reads #RGB, #RRGGBB or #AARRGGBB. Empty is opaque black.
func parseColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	if s == "" {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return c, fmt.Errorf("%w: backgroundcolor %q", ErrMalformedInput, s)
	}
	switch len(hex) {
	case 3:
		c.R = uint8(v>>8&0xf) * 0x11
		c.G = uint8(v>>4&0xf) * 0x11
		c.B = uint8(v&0xf) * 0x11
	case 8:
		c.A = uint8(v >> 24)
		fallthrough
	case 6:
		c.R = uint8(v >> 16)
		c.G = uint8(v >> 8)
		c.B = uint8(v)
	default:
		return c, fmt.Errorf("%w: backgroundcolor %q must be #RGB, #RRGGBB or #AARRGGBB", ErrMalformedInput, s)
	}
	return c, nil
}

// Width of the map in tiles
func (m *Map) Width() int { return m.width }

// Height of the map in tiles
func (m *Map) Height() int { return m.height }

func (m *Map) TileWidth() int { return m.tileWidth }

func (m *Map) TileHeight() int { return m.tileHeight }

// Properties returns properties set on the map itself
func (m *Map) Properties() *Properties { return m.properties }

// Background returns the map's background color.
func (m *Map) Background() color.NRGBA { return m.background.color }

// Layers returns every layer in draw order. The first is always the
// background color.
func (m *Map) Layers() []Layer {
	return append([]Layer(nil), m.layers...)
}

// TileLayers returns the tile layers in draw order.
func (m *Map) TileLayers() []*TileLayer {
	return append([]*TileLayer(nil), m.tileLayers...)
}

// TileLayer returns the first tile layer with the given name, or nil.
func (m *Map) TileLayer(name string) *TileLayer {
	if name == "" {
		return nil
	}
	for _, l := range m.tileLayers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// FindLayer returns the index in Layers of the first layer named name at or
// after from, or -1. Drawing everything up to a named layer then resuming
// from there is the intended use.
func (m *Map) FindLayer(name string, from int) int {
	if name == "" {
		return -1
	}
	if from < 0 {
		from = 0
	}
	for i := from; i < len(m.layers); i++ {
		if m.layers[i].Name() == name {
			return i
		}
	}
	return -1
}

// Tilesets returns the map's tilesets ordered by gid.
func (m *Map) Tilesets() []*Tileset { return m.registry.Tilesets() }

// TilesetForGID returns the tileset owning gid, nil if none does.
func (m *Map) TilesetForGID(gid int) *Tileset { return m.registry.Find(gid) }

// Objects returns the objects of every object group, in file order.
func (m *Map) Objects() []*MapObject {
	return append([]*MapObject(nil), m.objects...)
}

// SetTranslation offsets where tiles are drawn.
func (m *Map) SetTranslation(v Vec) {
	for _, l := range m.tileLayers {
		l.translation = v
	}
}

// Draw draws every layer in order.
func (m *Map) Draw(t DrawTarget, v View) {
	m.DrawLayers(t, v, 0, len(m.layers))
}

// DrawLayers draws layers [from, to) of Layers.
func (m *Map) DrawLayers(t DrawTarget, v View, from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(m.layers) {
		to = len(m.layers)
	}
	for i := from; i < to; i++ {
		m.layers[i].Draw(t, v)
	}
}

// Swap exchanges the contents of two maps.
func (m *Map) Swap(o *Map) {
	*m, *o = *o, *m
}
