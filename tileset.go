package tmap

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"time"
)

// NoTile is the gid of an empty cell.
const NoTile = 0

// Tileset is a sheet of tile images plus per tile metadata. It owns the gids
// [BeginGID, EndGID).
type Tileset struct {
	name       string
	source     string
	beginGID   int
	count      int
	tileWidth  int
	tileHeight int
	spacing    int
	columns    int
	image      image.Image

	// all indexed by local id, len == count
	properties []*Properties
	types      []string
	effects    []TileEffect

	animations map[int][]AnimationFrame
}

// newTileset returns a tileset of count tiles with every effect set to NoEffect.
func newTileset(name string, beginGID, count int) *Tileset {
	ts := &Tileset{
		name:       name,
		beginGID:   beginGID,
		count:      count,
		properties: make([]*Properties, count),
		types:      make([]string, count),
		effects:    make([]TileEffect, count),
		animations: map[int][]AnimationFrame{},
	}
	for i := range ts.effects {
		ts.effects[i] = NoEffect
	}
	return ts
}

func (t *Tileset) Name() string { return t.name }

// Source returns the path of the tileset image.
func (t *Tileset) Source() string { return t.source }

// Image returns the tileset image.
func (t *Tileset) Image() image.Image { return t.image }

func (t *Tileset) BeginGID() int { return t.beginGID }

// EndGID is one past the last gid this tileset owns.
func (t *Tileset) EndGID() int { return t.beginGID + t.count }

func (t *Tileset) TileCount() int { return t.count }

func (t *Tileset) TileWidth() int { return t.tileWidth }

func (t *Tileset) TileHeight() int { return t.tileHeight }

// Owns reports whether gid is in this tileset's range.
func (t *Tileset) Owns(gid int) bool {
	return gid >= t.beginGID && gid < t.EndGID()
}

// ToLocal converts a gid to an id local to this tileset.
func (t *Tileset) ToLocal(gid int) (int, error) {
	if !t.Owns(gid) {
		return 0, fmt.Errorf("%w: gid %d not in tileset %q [%d %d)", ErrOutOfRange, gid, t.name, t.beginGID, t.EndGID())
	}
	return gid - t.beginGID, nil
}

// ToGlobal converts a local id to a gid, NoTile if local is not a tile of
// this tileset.
func (t *Tileset) ToGlobal(local int) int {
	if local < 0 || local >= t.count {
		return NoTile
	}
	return t.beginGID + local
}

// TextureRect returns where the tile with the given local id sits in the
// tileset image.
func (t *Tileset) TextureRect(local int) (image.Rectangle, error) {
	if local < 0 || local >= t.count {
		return image.Rectangle{}, fmt.Errorf("%w: local id %d in tileset %q of %d tiles", ErrOutOfRange, local, t.name, t.count)
	}
	if t.columns == 0 {
		return image.Rectangle{}, fmt.Errorf("%w: tileset %q has no columns", ErrOutOfRange, t.name)
	}

	x := (local % t.columns) * (t.tileWidth + t.spacing)
	y := (local / t.columns) * (t.tileHeight + t.spacing)
	return image.Rect(x, y, x+t.tileWidth, y+t.tileHeight), nil
}

// Effect returns the effect of the tile with the given local id. Ids outside
// the tileset get NoEffect.
func (t *Tileset) Effect(local int) TileEffect {
	if local < 0 || local >= len(t.effects) {
		return NoEffect
	}
	return t.effects[local]
}

// EffectFor returns the effect of the tile with the given gid.
func (t *Tileset) EffectFor(gid int) TileEffect {
	return t.Effect(gid - t.beginGID)
}

// SetTileEffect binds e to one tile. A nil e restores NoEffect.
func (t *Tileset) SetTileEffect(local int, e TileEffect) error {
	if local < 0 || local >= len(t.effects) {
		return fmt.Errorf("%w: local id %d in tileset %q of %d tiles", ErrOutOfRange, local, t.name, t.count)
	}
	if e == nil {
		e = NoEffect
	}
	t.effects[local] = e
	return nil
}

// Frame returns the frame that draws the tile with the given local id,
// NoFrame if it is not a tile of this tileset.
func (t *Tileset) Frame(local int) TileFrame {
	gid := t.ToGlobal(local)
	if gid == NoTile {
		return NoFrame
	}
	return FrameOf(gid)
}

// Animation returns the animation Tiled defines on a tile, if any.
func (t *Tileset) Animation(local int) []AnimationFrame {
	return t.animations[local]
}

// TypeOf returns the type (or class) given to a tile, "" if none.
func (t *Tileset) TypeOf(local int) string {
	if local < 0 || local >= len(t.types) {
		return ""
	}
	return t.types[local]
}

// PropertiesOn returns the properties of a tile, nil if it has none.
func (t *Tileset) PropertiesOn(local int) *Properties {
	if local < 0 || local >= len(t.properties) {
		return nil
	}
	return t.properties[local]
}

// tilesetLoader reads tilesets, following external .tsx references.
type tilesetLoader struct {
	cfg *Config
}

// load builds a tileset from its <tileset> element. dir is the directory of
// the referring document, used to resolve relative paths.
func (l *tilesetLoader) load(x *xmlTileset, dir string) (*Tileset, error) {
	firstGID, err := requireInt(x.FirstGID, "firstgid", "tileset")
	if err != nil {
		return nil, err
	}

	// external tileset: everything but firstgid comes from the .tsx
	for depth := 0; x.Source != ""; depth++ {
		if depth > maxTilesetDepth {
			return nil, fmt.Errorf("%w: tileset %s references too many tilesets", ErrMalformedInput, x.Source)
		}
		path := resolvePath(dir, x.Source)
		l.cfg.Logger.Printf("loading external tileset %s", path)

		ext := &xmlTileset{}
		if err := loadDocument(path, ext); err != nil {
			return nil, err
		}
		x, dir = ext, filepath.Dir(path)
	}

	where := fmt.Sprintf("tileset %q", x.Name)
	tw, err := requireInt(x.TileWidth, "tilewidth", where)
	if err != nil {
		return nil, err
	}
	th, err := requireInt(x.TileHeight, "tileheight", where)
	if err != nil {
		return nil, err
	}
	spacing, err := optionalInt(x.Spacing, 0, "spacing", where)
	if err != nil {
		return nil, err
	}
	if x.Image == nil || x.Image.Source == nil {
		return nil, fmt.Errorf("%w: image source on %s", ErrMissingAttribute, where)
	}

	source := resolvePath(dir, *x.Image.Source)
	img, ok := l.cfg.Images.LoadImage(source)
	if !ok {
		return nil, fmt.Errorf("%w: image %s of %s", ErrResourceLoad, source, where)
	}

	columns, rows := 0, 0
	if tw+spacing > 0 && th+spacing > 0 {
		b := img.Bounds()
		columns = b.Dx() / (tw + spacing)
		rows = b.Dy() / (th + spacing)
	}

	ts := newTileset(x.Name, firstGID, columns*rows)
	ts.source = source
	ts.image = img
	ts.tileWidth = tw
	ts.tileHeight = th
	ts.spacing = spacing
	ts.columns = columns

	for _, tile := range x.Tiles {
		if err := ts.loadTile(tile, where); err != nil {
			return nil, err
		}
	}

	l.cfg.Logger.Printf("tileset %q: gids [%d %d) from %s", ts.name, ts.BeginGID(), ts.EndGID(), source)
	return ts, nil
}

// maxTilesetDepth bounds chains of external tilesets.
const maxTilesetDepth = 8

// loadTile reads the metadata of one <tile>.
func (t *Tileset) loadTile(x *xmlTile, where string) error {
	id, err := requireInt(x.ID, "id", "tile of "+where)
	if err != nil {
		return err
	}
	if id < 0 || id >= t.count {
		return fmt.Errorf("%w: tile id %d on %s of %d tiles", ErrOutOfRange, id, where, t.count)
	}
	at := fmt.Sprintf("tile %d of %s", id, where)

	props, err := readProperties(x.Properties, true, at)
	if err != nil {
		return err
	}
	if props.Len() > 0 {
		t.properties[id] = props
	}

	t.types[id] = x.Type
	if x.Class != "" {
		t.types[id] = x.Class
	}

	if len(x.Animation) == 0 {
		return nil
	}
	frames := make([]AnimationFrame, 0, len(x.Animation))
	for _, f := range x.Animation {
		local, err := requireInt(f.TileID, "tileid", "animation of "+at)
		if err != nil {
			return err
		}
		ms, err := requireInt(f.Duration, "duration", "animation of "+at)
		if err != nil {
			return err
		}
		frame := t.Frame(local)
		if frame == NoFrame {
			return fmt.Errorf("%w: animation frame %d on %s", ErrOutOfRange, local, at)
		}
		frames = append(frames, AnimationFrame{Frame: frame, Duration: time.Duration(ms) * time.Millisecond})
	}
	t.animations[id] = frames
	return nil
}

func (t *Tileset) String() string {
	return t.name + "[" + strconv.Itoa(t.beginGID) + " " + strconv.Itoa(t.EndGID()) + ")"
}
