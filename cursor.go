package tmap

import "iter"

type cursorState int

const (
	cursorBegin cursorState = iota
	cursorMatch
	cursorEnd
)

// EffectCursor is a position in a scan of every tile, tileset by tileset, for
// tiles carrying some property. The zero value is the start of a scan.
//
//	for c := m.NextTileEffect("kind", tmap.EffectCursor{}); !c.Done(); c = m.NextTileEffect("kind", c) {
//		...
//	}
type EffectCursor struct {
	state   cursorState
	tileset *Tileset
	index   int // of tileset in the registry
	local   int

	// Value of the property on the matched tile
	Value string
	// Frame of the matched tile
	Frame TileFrame
}

// endCursor is where every scan stops.
var endCursor = EffectCursor{state: cursorEnd, index: -1, local: -1}

// Done reports whether the scan is exhausted.
func (c EffectCursor) Done() bool { return c.state == cursorEnd }

// Matched reports whether the cursor is positioned on a tile.
func (c EffectCursor) Matched() bool { return c.state == cursorMatch }

// Tileset returns the tileset of the matched tile, nil if not matched.
func (c EffectCursor) Tileset() *Tileset { return c.tileset }

// Local returns the local id of the matched tile, -1 if not matched.
func (c EffectCursor) Local() int {
	if c.state != cursorMatch {
		return -1
	}
	return c.local
}

// Effect returns the effect bound to the matched tile.
func (c EffectCursor) Effect() TileEffect {
	if c.state != cursorMatch {
		return NoEffect
	}
	return c.tileset.Effect(c.local)
}

// SetEffect binds e to the matched tile.
func (c EffectCursor) SetEffect(e TileEffect) error {
	if c.state != cursorMatch {
		return ErrNoMatch
	}
	return c.tileset.SetTileEffect(c.local, e)
}

// NextTileEffect returns the first tile after prev (or the first tile of the
// map if prev is the zero cursor) that has property name. The returned cursor
// is Done once every tile has been scanned.
func (m *Map) NextTileEffect(name string, prev EffectCursor) EffectCursor {
	index, local := 0, 0
	switch prev.state {
	case cursorEnd:
		return endCursor
	case cursorMatch:
		index, local = prev.index, prev.local+1
	}

	for ; index < m.registry.Len(); index, local = index+1, 0 {
		ts := m.registry.At(index)
		for ; local < ts.TileCount(); local++ {
			value, ok := ts.PropertiesOn(local).String(name)
			if !ok {
				continue
			}
			return EffectCursor{
				state:   cursorMatch,
				tileset: ts,
				index:   index,
				local:   local,
				Value:   value,
				Frame:   ts.Frame(local),
			}
		}
	}
	return endCursor
}

// AccessTileEffects calls fn for each tile with property name, passing the
// tile's effect slot. Storing nil in the slot restores NoEffect.
func (m *Map) AccessTileEffects(name string, fn func(value string, slot *TileEffect, frame TileFrame)) {
	for c := m.NextTileEffect(name, EffectCursor{}); !c.Done(); c = m.NextTileEffect(name, c) {
		slot := &c.tileset.effects[c.local]
		fn(c.Value, slot, c.Frame)
		if *slot == nil {
			*slot = NoEffect
		}
	}
}

// AssignTileEffect binds e to every tile whose property name equals value,
// replacing what was bound before. An empty value matches any value.
func (m *Map) AssignTileEffect(name, value string, e TileEffect) error {
	if e == nil {
		return ErrNilEffect
	}

	n := 0
	m.AccessTileEffects(name, func(v string, slot *TileEffect, _ TileFrame) {
		if value != "" && v != value {
			return
		}
		*slot = e
		n++
	})
	m.logger.Printf("assigned effect to %d tiles with %s=%q", n, name, value)
	return nil
}

// TileFrames yields the frame & property value of each tile with property name.
func (m *Map) TileFrames(name string) iter.Seq2[TileFrame, string] {
	return func(yield func(TileFrame, string) bool) {
		for c := m.NextTileEffect(name, EffectCursor{}); !c.Done(); c = m.NextTileEffect(name, c) {
			if !yield(c.Frame, c.Value) {
				return
			}
		}
	}
}
