package tmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the outline of a map object.
type Shape int

const (
	// ShapeNone is an object with no area (e.g. a point)
	ShapeNone Shape = iota
	ShapeRectangle
	ShapeText
	ShapeEllipse
	ShapePolygon
	ShapePolyline
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeText:
		return "text"
	case ShapeEllipse:
		return "ellipse"
	case ShapePolygon:
		return "polygon"
	case ShapePolyline:
		return "polyline"
	}
	return "none"
}

// Rectf is a rectangle in map pixels.
type Rectf struct {
	X, Y, Width, Height float64
}

// MapObject is something placed freely on an object layer.
type MapObject struct {
	Name string
	Type string
	// name of the objectgroup the object is in
	Group      string
	Bounds     Rectf
	Shape      Shape
	Points     []Vec // polygon & polyline, relative to Bounds.X,Y
	Properties *Properties

	// set on tile objects only
	LocalID int
	Tileset *Tileset
}

// IsTile reports whether the object draws a tile.
func (o *MapObject) IsTile() bool {
	return o.Tileset != nil
}

// GID returns the gid of the tile the object draws, NoTile if none.
func (o *MapObject) GID() int {
	if o.Tileset == nil {
		return NoTile
	}
	return o.Tileset.ToGlobal(o.LocalID)
}

// loadObject reads one <object> of the given group.
func loadObject(x *xmlObject, group string, reg *Registry) (*MapObject, error) {
	where := fmt.Sprintf("object %q (id %s) in %q", x.Name, x.ID, group)

	obj := &MapObject{Name: x.Name, Type: x.Type, Group: group}
	if x.Class != "" && obj.Type == "" {
		obj.Type = x.Class
	}

	var err error
	for _, f := range []struct {
		attr string
		v    string
		dst  *float64
	}{
		{"x", x.X, &obj.Bounds.X},
		{"y", x.Y, &obj.Bounds.Y},
		{"width", x.Width, &obj.Bounds.Width},
		{"height", x.Height, &obj.Bounds.Height},
	} {
		*f.dst, err = optionalFloat(f.v, 0, f.attr, where)
		if err != nil {
			return nil, err
		}
	}
	if obj.Bounds.Width < 0 || obj.Bounds.Height < 0 {
		return nil, fmt.Errorf("%w: %s has negative size %gx%g", ErrMalformedInput, where, obj.Bounds.Width, obj.Bounds.Height)
	}

	obj.Properties, err = readProperties(x.Properties, false, where)
	if err != nil {
		return nil, err
	}

	hasGID, err := obj.loadGID(x.GID, reg, where)
	if err != nil {
		return nil, err
	}
	if err := obj.loadShape(x, where); err != nil {
		return nil, err
	}
	if hasGID && obj.Shape != ShapeRectangle {
		return nil, fmt.Errorf("%w: %s has a gid but is a %s", ErrMalformedInput, where, obj.Shape)
	}
	return obj, nil
}

// loadGID attaches the tile of a tile object. A gid of 0 is an empty tile
// object.
func (o *MapObject) loadGID(v string, reg *Registry, where string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	gid, err := strconv.Atoi(v)
	if err != nil {
		return false, fmt.Errorf("%w: gid=%q on %s", ErrNonIntegerAttribute, v, where)
	}
	if gid == NoTile {
		return true, nil
	}

	ts := reg.Find(gid)
	if ts == nil {
		return false, fmt.Errorf("%w: gid %d on %s has no tileset", ErrOutOfRange, gid, where)
	}
	o.Tileset = ts
	o.LocalID = gid - ts.BeginGID()

	// Tiled anchors tile objects at their bottom left
	o.Bounds.Y -= o.Bounds.Height
	if o.Type == "" {
		o.Type = ts.TypeOf(o.LocalID)
	}
	return true, nil
}

func (o *MapObject) loadShape(x *xmlObject, where string) error {
	n := 0
	for _, present := range []bool{x.Polygon != nil, x.Ellipse != nil, x.Polyline != nil, x.Text != nil} {
		if present {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("%w: %s has more than one of polygon, ellipse, polyline or text", ErrMalformedInput, where)
	}

	var err error
	switch {
	case x.Polygon != nil:
		o.Shape = ShapePolygon
		o.Points, err = readPoints(x.Polygon.Points, where)
	case x.Ellipse != nil:
		o.Shape = ShapeEllipse
	case x.Polyline != nil:
		o.Shape = ShapePolyline
		o.Points, err = readPoints(x.Polyline.Points, where)
	case x.Text != nil:
		o.Shape = ShapeText
	case o.Bounds.Width != 0 && o.Bounds.Height != 0:
		o.Shape = ShapeRectangle
	}
	return err
}

// readPoints parses "x,y x,y ...".
func readPoints(s, where string) ([]Vec, error) {
	fields := strings.Fields(s)
	points := make([]Vec, 0, len(fields))
	for _, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("%w: point %q on %s must have exactly two numbers", ErrMalformedInput, f, where)
		}
		x, errx := strconv.ParseFloat(xy[0], 64)
		y, erry := strconv.ParseFloat(xy[1], 64)
		if errx != nil || erry != nil {
			return nil, fmt.Errorf("%w: point %q on %s is not numeric", ErrMalformedInput, f, where)
		}
		points = append(points, Vec{x, y})
	}
	return points, nil
}
