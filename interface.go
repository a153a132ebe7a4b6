package tmap

// TileProperties represents a grid of tiles we can query & edit by cell
type TileProperties interface {
	// Width & Height of the grid in tiles
	Width() int
	Height() int

	// GID returns the global tile id at x,y (NoTile if empty or off the grid)
	GID(x, y int) int

	// At returns the properties of the tile at x,y or nil if it has none
	At(x, y int) *Properties

	// SetGID places the tile `gid` at x,y. NoTile clears the cell.
	SetGID(x, y, gid int) error
}

// Layer is one drawable layer of a map, drawn in map order.
type Layer interface {
	Name() string

	// Draw sends the sprites of everything in view to t
	Draw(t DrawTarget, v View)
}
