/*
Package index exports loaded maps into a sqlite database so tiles & objects can
be queried by region or property without loading the TMX again.

The database is an export only; nothing reads it back into a tmap.Map.
*/
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/voidshard/tmap"
)

const (
	sqlInsertMap    = `INSERT INTO maps (name, width, height, tilewidth, tileheight, data) VALUES (:name, :width, :height, :tilewidth, :tileheight, :data)`
	sqlInsertTiles  = `INSERT INTO tiles (map, lidx, layer, x, y, gid, tileset) VALUES (:map, :lidx, :layer, :x, :y, :gid, :tileset)`
	sqlInsertProps  = `INSERT INTO properties (map, gid, data) VALUES (:map, :gid, :data)`
	sqlInsertObject = `INSERT INTO objects (map, idx, grp, name, type, shape, x, y, width, height, gid, data) VALUES (:map, :idx, :grp, :name, :type, :shape, :x, :y, :width, :height, :gid, :data)`

	sqlSelectTiles = `SELECT t.lidx, t.layer, t.x, t.y, t.gid, t.tileset, p.data FROM tiles t LEFT JOIN properties p ON p.map = t.map AND p.gid = t.gid WHERE `

	// rows per insert, sqlite limits the number of bound variables
	batchSize = 500
)

// execer allows us to use either a transaction or the DB in our sub functions.
type execer interface {
	NamedExec(string, interface{}) (sql.Result, error)
}

// Index is a sqlite database of maps.
type Index struct {
	filename string
	db       *sqlx.DB
}

// Open the index database at fname. Will create if it doesn't exist.
func Open(fname string) (*Index, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	i := &Index{db: db, filename: fname}
	if err := i.init(); err != nil {
		db.Close()
		return nil, err
	}
	return i, nil
}

// Filename returns the path to the database on disk
func (i *Index) Filename() string {
	return i.filename
}

func (i *Index) Close() error {
	return i.db.Close()
}

// Tile is a non empty cell of a tile layer. Layer names need not be unique;
// LayerIndex is the layer's position in the map's tile layers.
type Tile struct {
	LayerIndex int               `db:"lidx"`
	Layer      string            `db:"layer"`
	X          int               `db:"x"`
	Y          int               `db:"y"`
	GID        int               `db:"gid"`
	Tileset    string            `db:"tileset"`
	Properties map[string]string `db:"-"`
}

// Object is a map object as stored.
type Object struct {
	Group      string            `db:"grp"`
	Name       string            `db:"name"`
	Type       string            `db:"type"`
	Shape      string            `db:"shape"`
	X          float64           `db:"x"`
	Y          float64           `db:"y"`
	Width      float64           `db:"width"`
	Height     float64           `db:"height"`
	GID        int               `db:"gid"`
	Properties map[string]string `db:"-"`
}

// Put stores m under name, replacing whatever was stored under it before.
func (i *Index) Put(name string, m *tmap.Map) error {
	txn, err := i.db.Beginx()
	if err != nil {
		return err
	}

	err = i.put(txn, name, m)
	if err != nil {
		txn.Rollback()
		return err
	}
	return txn.Commit()
}

func (i *Index) put(txn *sqlx.Tx, name string, m *tmap.Map) error {
	for _, table := range []string{"maps", "tiles", "properties", "objects"} {
		col := "map"
		if table == "maps" {
			col = "name"
		}
		_, err := txn.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, col), name)
		if err != nil {
			return err
		}
	}

	_, err := txn.NamedExec(sqlInsertMap, dbMap{
		Name:       name,
		Width:      m.Width(),
		Height:     m.Height(),
		TileWidth:  m.TileWidth(),
		TileHeight: m.TileHeight(),
		Data:       encodeProps(m.Properties()),
	})
	if err != nil {
		return err
	}

	tiles := []dbTile{}
	for lidx, l := range m.TileLayers() {
		for y := 0; y < l.Height(); y++ {
			for x := 0; x < l.Width(); x++ {
				c := l.Cell(x, y)
				if c.GID == tmap.NoTile {
					continue
				}
				tiles = append(tiles, newDBTile(name, lidx, l.Name(), x, y, c))
			}
		}
	}
	if err := insert(txn, sqlInsertTiles, tiles); err != nil {
		return err
	}

	props := []dbProp{}
	for _, ts := range m.Tilesets() {
		for local := 0; local < ts.TileCount(); local++ {
			p := ts.PropertiesOn(local)
			if p.Len() == 0 {
				continue
			}
			props = append(props, dbProp{Map: name, GID: ts.ToGlobal(local), Data: encodeProps(p)})
		}
	}
	if err := insert(txn, sqlInsertProps, props); err != nil {
		return err
	}

	objects := []dbObject{}
	for n, o := range m.Objects() {
		objects = append(objects, newDBObject(name, n, o))
	}
	return insert(txn, sqlInsertObject, objects)
}

// insert writes rows in batches.
func insert[T any](do execer, query string, rows []T) error {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := do.NamedExec(query, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Region returns the tiles of a layer in the rectangle [x0,x1) x [y0,y1),
// row by row. Layers sharing the name are returned one after another in map
// order.
func (i *Index) Region(name, layer string, x0, y0, x1, y1 int) ([]*Tile, error) {
	if x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("index: region (%d,%d)-(%d,%d) is empty", x0, y0, x1, y1)
	}

	rows, err := i.db.NamedQuery(
		sqlSelectTiles+"t.map=:map AND t.layer=:layer AND t.x>=:x0 AND t.x<:x1 AND t.y>=:y0 AND t.y<:y1 ORDER BY t.lidx, t.y, t.x;",
		map[string]interface{}{
			"map": name, "layer": layer,
			"x0": x0, "x1": x1,
			"y0": y0, "y1": y1,
		},
	)
	if err != nil {
		return nil, err
	}
	return scanTiles(rows)
}

// WithProperty returns every tile of the map whose tile properties include
// key, with the given value unless value is "".
func (i *Index) WithProperty(name, key, value string) ([]*Tile, error) {
	gids, err := i.gidsWithProperty(name, key, value)
	if err != nil || len(gids) == 0 {
		return nil, err
	}

	query, args, err := sqlx.In(sqlSelectTiles+"t.map=? AND t.gid IN (?) ORDER BY t.lidx, t.y, t.x;", name, gids)
	if err != nil {
		return nil, err
	}
	rows, err := i.db.Queryx(i.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return scanTiles(rows)
}

// gidsWithProperty returns the gids whose properties match.
func (i *Index) gidsWithProperty(name, key, value string) ([]int, error) {
	props := []dbProp{}
	err := i.db.Select(&props, "SELECT map, gid, data FROM properties WHERE map=? ORDER BY gid;", name)
	if err != nil {
		return nil, err
	}

	gids := []int{}
	for _, p := range props {
		data, err := decodeProps(sql.NullString{String: p.Data, Valid: true})
		if err != nil {
			return nil, err
		}
		v, ok := data[key]
		if !ok || (value != "" && v != value) {
			continue
		}
		gids = append(gids, p.GID)
	}
	return gids, nil
}

// Objects returns the objects of a map in the order they were in the file.
func (i *Index) Objects(name string) ([]*Object, error) {
	rows, err := i.db.Queryx("SELECT grp, name, type, shape, x, y, width, height, gid, data FROM objects WHERE map=? ORDER BY idx;", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Object{}
	for rows.Next() {
		r := struct {
			Object
			Data sql.NullString `db:"data"`
		}{}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		r.Object.Properties, err = decodeProps(r.Data)
		if err != nil {
			return nil, err
		}
		o := r.Object
		result = append(result, &o)
	}
	return result, rows.Err()
}

// Maps returns the names of every stored map.
func (i *Index) Maps() ([]string, error) {
	names := []string{}
	err := i.db.Select(&names, "SELECT name FROM maps ORDER BY name;")
	return names, err
}

func scanTiles(rows *sqlx.Rows) ([]*Tile, error) {
	defer rows.Close()

	result := []*Tile{}
	for rows.Next() {
		r := struct {
			Tile
			Data sql.NullString `db:"data"`
		}{}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}

		props, err := decodeProps(r.Data)
		if err != nil {
			return nil, err
		}
		t := r.Tile
		t.Properties = props
		result = append(result, &t)
	}
	return result, rows.Err()
}

// init creates some DB tables for us if they don't exist
func (i *Index) init() error {
	for _, create := range []string{
		`CREATE TABLE IF NOT EXISTS maps(
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		tilewidth INTEGER NOT NULL,
		tileheight INTEGER NOT NULL,
		data TEXT
	    );`,
		`CREATE TABLE IF NOT EXISTS tiles(
		map TEXT NOT NULL,
		lidx INTEGER NOT NULL,
		layer TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		gid INTEGER NOT NULL,
		tileset TEXT NOT NULL,
		PRIMARY KEY (map, lidx, x, y)
	    );`,
		`CREATE INDEX IF NOT EXISTS tiles_region ON tiles(map, layer, y, x);`,
		`CREATE TABLE IF NOT EXISTS properties(
		map TEXT NOT NULL,
		gid INTEGER NOT NULL,
		data TEXT,
		PRIMARY KEY (map, gid)
	    );`,
		`CREATE TABLE IF NOT EXISTS objects(
		map TEXT NOT NULL,
		idx INTEGER NOT NULL,
		grp TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		shape TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL,
		gid INTEGER NOT NULL,
		data TEXT,
		PRIMARY KEY (map, idx)
	    );`,
	} {
		if _, err := i.db.Exec(create); err != nil {
			return err
		}
	}
	return nil
}

type dbMap struct {
	Name       string `db:"name"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	TileWidth  int    `db:"tilewidth"`
	TileHeight int    `db:"tileheight"`
	Data       string `db:"data"`
}

// dbTile encodes a single cell, keyed by (map, layer index, x, y).
type dbTile struct {
	Map        string `db:"map"`
	LayerIndex int    `db:"lidx"`
	Layer      string `db:"layer"`
	X          int    `db:"x"`
	Y          int    `db:"y"`
	GID        int    `db:"gid"`
	Tileset    string `db:"tileset"`
}

func newDBTile(name string, lidx int, layer string, x, y int, c tmap.Cell) dbTile {
	ts := ""
	if c.Tileset != nil {
		ts = c.Tileset.Name()
	}
	return dbTile{
		Map: name, LayerIndex: lidx, Layer: layer, X: x, Y: y,
		GID: c.GID, Tileset: ts,
	}
}

// dbProp encodes the properties of one tile as JSON.
type dbProp struct {
	Map  string `db:"map"`
	GID  int    `db:"gid"`
	Data string `db:"data"`
}

type dbObject struct {
	Map    string  `db:"map"`
	Index  int     `db:"idx"`
	Group  string  `db:"grp"`
	Name   string  `db:"name"`
	Type   string  `db:"type"`
	Shape  string  `db:"shape"`
	X      float64 `db:"x"`
	Y      float64 `db:"y"`
	Width  float64 `db:"width"`
	Height float64 `db:"height"`
	GID    int     `db:"gid"`
	Data   string  `db:"data"`
}

func newDBObject(name string, n int, o *tmap.MapObject) dbObject {
	return dbObject{
		Map:   name,
		Index: n,
		Group: o.Group, Name: o.Name, Type: o.Type, Shape: o.Shape.String(),
		X: o.Bounds.X, Y: o.Bounds.Y, Width: o.Bounds.Width, Height: o.Bounds.Height,
		GID:  o.GID(),
		Data: encodeProps(o.Properties),
	}
}

func encodeProps(p *tmap.Properties) string {
	data, _ := json.Marshal(p.Map())
	return string(data)
}

func decodeProps(s sql.NullString) (map[string]string, error) {
	out := map[string]string{}
	if !s.Valid || s.String == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}
