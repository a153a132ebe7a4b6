/* this file is the set of structs we read TMX & TSX documents into.

Attributes the loader requires are pointers so that "missing" and "present but
wrong" can be reported differently. Everything else is read as a plain string
and converted (if needed) by the loader.
*/
package tmap

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// xmlMap is the root <map> element.
type xmlMap struct {
	XMLName         xml.Name          `xml:"map"`
	Orientation     *string           `xml:"orientation,attr"` // we only support "orthogonal"
	Width           *string           `xml:"width,attr"`       // in tiles
	Height          *string           `xml:"height,attr"`      // in tiles
	TileWidth       *string           `xml:"tilewidth,attr"`   // in pixels
	TileHeight      *string           `xml:"tileheight,attr"`  // in pixels
	BackgroundColor string            `xml:"backgroundcolor,attr"`
	Properties      []*xmlProperty    `xml:"properties>property"`
	Tilesets        []*xmlTileset     `xml:"tileset"`
	TileLayers      []*xmlLayer       `xml:"layer"`
	ObjectGroups    []*xmlObjectGroup `xml:"objectgroup"`
}

// xmlTileset is either a <tileset> inside a map or the root of a .tsx file.
// In the former case Source may point at the latter.
type xmlTileset struct {
	XMLName    xml.Name   `xml:"tileset"`
	FirstGID   *string    `xml:"firstgid,attr"`
	Source     string     `xml:"source,attr"`
	Name       string     `xml:"name,attr"`
	TileWidth  *string    `xml:"tilewidth,attr"`
	TileHeight *string    `xml:"tileheight,attr"`
	Spacing    *string    `xml:"spacing,attr"`
	Image      *xmlImage  `xml:"image"`
	Tiles      []*xmlTile `xml:"tile"`
}

// xmlProperty is a Tiled custom property.
type xmlProperty struct {
	Name  *string `xml:"name,attr"`
	Value *string `xml:"value,attr"`
	Type  string  `xml:"type,attr"` // string (default), int, float, bool + others we keep as text
}

type xmlImage struct {
	Source *string `xml:"source,attr"`
	Width  string  `xml:"width,attr"`
	Height string  `xml:"height,attr"`
}

// xmlTile holds per tile metadata of a tileset.
type xmlTile struct {
	ID         *string        `xml:"id,attr"`
	Type       string         `xml:"type,attr"`
	Class      string         `xml:"class,attr"` // Tiled >= 1.9 name for type
	Properties []*xmlProperty `xml:"properties>property"`
	Animation  []*xmlFrame    `xml:"animation>frame"`
}

type xmlFrame struct {
	TileID   *string `xml:"tileid,attr"`
	Duration *string `xml:"duration,attr"` // milliseconds
}

// xmlLayer is a <layer> of tiles.
type xmlLayer struct {
	Name       string         `xml:"name,attr"`
	Width      *string        `xml:"width,attr"`
	Height     *string        `xml:"height,attr"`
	Opacity    *string        `xml:"opacity,attr"`
	Properties []*xmlProperty `xml:"properties>property"`
	Data       *xmlData       `xml:"data"`
}

// xmlData holds a layer's tiles in one of three encodings.
type xmlData struct {
	Encoding    string         `xml:"encoding,attr"`
	Compression string         `xml:"compression,attr"`
	Text        string         `xml:",chardata"`
	Tiles       []*xmlDataTile `xml:"tile"`
}

type xmlDataTile struct {
	GID *string `xml:"gid,attr"`
}

type xmlObjectGroup struct {
	Name    string       `xml:"name,attr"`
	Objects []*xmlObject `xml:"object"`
}

type xmlObject struct {
	ID         string         `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	Class      string         `xml:"class,attr"`
	X          string         `xml:"x,attr"`
	Y          string         `xml:"y,attr"`
	Width      string         `xml:"width,attr"`
	Height     string         `xml:"height,attr"`
	GID        string         `xml:"gid,attr"`
	Properties []*xmlProperty `xml:"properties>property"`
	Ellipse    *struct{}      `xml:"ellipse"`
	Polygon    *xmlPoints     `xml:"polygon"`
	Polyline   *xmlPoints     `xml:"polyline"`
	Text       *struct{}      `xml:"text"`
}

type xmlPoints struct {
	Points string `xml:"points,attr"`
}

// requireInt reads a required integer attribute.
func requireInt(v *string, attr, where string) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %q on %s", ErrMissingAttribute, attr, where)
	}
	i, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q on %s", ErrNonIntegerAttribute, attr, *v, where)
	}
	return i, nil
}

// optionalInt reads an integer attribute that defaults to def when absent.
func optionalInt(v *string, def int, attr, where string) (int, error) {
	if v == nil {
		return def, nil
	}
	return requireInt(v, attr, where)
}

// optionalFloat reads a float attribute, empty is def.
func optionalFloat(v string, def float64, attr, where string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q on %s is not a number", ErrMalformedInput, attr, v, where)
	}
	return f, nil
}

// readProperties collects name/value pairs. With strict set an entry lacking
// either is an error, otherwise it is skipped.
func readProperties(in []*xmlProperty, strict bool, where string) (*Properties, error) {
	props := NewProperties()
	for _, p := range in {
		if p.Name == nil || p.Value == nil {
			if strict {
				attr := "name"
				if p.Name != nil {
					attr = "value"
				}
				return nil, fmt.Errorf("%w: property %q on %s", ErrMissingAttribute, attr, where)
			}
			continue
		}
		props.set(*p.Name, *p.Value, p.Type)
	}
	return props, nil
}
