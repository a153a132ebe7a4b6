package tmap

import (
	"fmt"
	"sort"
)

// Registry finds the tileset owning a gid.
//
// Tilesets are added in any order, then Sort must be called before Find.
type Registry struct {
	tilesets []*Tileset
	sorted   bool
}

// Add registers a tileset. The registry must be sorted again afterwards.
func (r *Registry) Add(ts *Tileset) {
	r.tilesets = append(r.tilesets, ts)
	r.sorted = false
}

// Sort orders tilesets by their first gid and checks that no two ranges
// overlap (ErrTilesetOverlap) and none starts below gid 1 (ErrOutOfRange).
// Gaps between ranges are allowed.
func (r *Registry) Sort() error {
	sort.SliceStable(r.tilesets, func(i, j int) bool {
		return r.tilesets[i].BeginGID() < r.tilesets[j].BeginGID()
	})

	for i, ts := range r.tilesets {
		if ts.BeginGID() < 1 {
			return fmt.Errorf("%w: tileset %q starts at gid %d, gids start at 1", ErrOutOfRange, ts.Name(), ts.BeginGID())
		}
		if i == 0 {
			continue
		}
		prev := r.tilesets[i-1]
		if prev.EndGID() > ts.BeginGID() {
			return fmt.Errorf("%w: %s and %s", ErrTilesetOverlap, prev, ts)
		}
	}

	r.sorted = true
	return nil
}

// Find returns the tileset owning gid, nil for NoTile or a gid no tileset
// owns. Find panics if the registry has not been sorted.
func (r *Registry) Find(gid int) *Tileset {
	if gid == NoTile {
		return nil
	}
	if !r.sorted {
		panic("tmap: Registry.Find called before Sort")
	}

	lo, hi := 0, len(r.tilesets)
	for lo < hi {
		mid := lo + (hi-lo)/2
		ts := r.tilesets[mid]
		switch {
		case gid < ts.BeginGID():
			hi = mid
		case gid >= ts.EndGID():
			lo = mid + 1
		default:
			return ts
		}
	}
	return nil
}

func (r *Registry) Len() int { return len(r.tilesets) }

// At returns the i-th tileset in gid order.
func (r *Registry) At(i int) *Tileset { return r.tilesets[i] }

// Tilesets returns all tilesets in gid order.
func (r *Registry) Tilesets() []*Tileset {
	return append([]*Tileset(nil), r.tilesets...)
}
