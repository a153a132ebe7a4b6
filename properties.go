package tmap

import (
	"sort"
	"strconv"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropString = "string"
	PropInt    = "int"
	PropFloat  = "float"
	PropBool   = "bool"
)

// Properties are the custom name/value pairs Tiled attaches to maps, layers,
// tiles and objects. Values are kept as written in the file; the typed getters
// convert on read.
//
// A Properties is never modified once a map is loaded.
type Properties struct {
	values map[string]string
	types  map[string]string
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		values: map[string]string{},
		types:  map[string]string{},
	}
}

// set is only used while loading.
func (p *Properties) set(name, value, kind string) {
	p.values[name] = value
	if kind == "" {
		kind = PropString
	}
	p.types[name] = kind
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.values)
}

// Keys returns property names in ascending order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Type returns the declared Tiled type of a property ("string" if none was given).
func (p *Properties) Type(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.types[key]
	return v, ok
}

// String returns the raw value of key.
func (p *Properties) String(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Int returns key parsed as an integer. The second value is false if the key
// is absent or not an integer.
func (p *Properties) Int(key string) (int, bool) {
	s, ok := p.String(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (p *Properties) Float(key string) (float64, bool) {
	s, ok := p.String(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (p *Properties) Bool(key string) (bool, bool) {
	s, ok := p.String(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}

// Map returns a copy of the properties as a plain map.
func (p *Properties) Map() map[string]string {
	out := map[string]string{}
	if p == nil {
		return out
	}
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
