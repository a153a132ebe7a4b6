package main

import (
	"fmt"
	"image/color"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/tmap"
	"github.com/voidshard/tmap/render"
)

// config is the optional yaml file given by --config
//
//	scale: 2
//	output: out.png
//	effects:
//	  - property: kind
//	    value: door
//	    tint: "#ff000080"
//	  - property: hidden
//	    hide: true
//	  - property: kind
//	    value: wall
//	    swap: 3
type config struct {
	Scale   float64        `yaml:"scale"`
	Output  string         `yaml:"output"`
	Effects []effectConfig `yaml:"effects"`
}

// effectConfig binds an effect to tiles with property=value (any value if empty).
type effectConfig struct {
	Property string `yaml:"property"`
	Value    string `yaml:"value"`
	Tint     string `yaml:"tint"` // #RRGGBB or #RRGGBBAA
	Hide     bool   `yaml:"hide"`
	Swap     int    `yaml:"swap"` // gid drawn instead
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Scale: 1}
	if path == "" {
		return cfg, nil
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	for i, e := range cfg.Effects {
		if e.Property == "" {
			return nil, fmt.Errorf("config %s: effect %d has no property", path, i)
		}
	}
	return cfg, nil
}

func (e effectConfig) effect() (tmap.TileEffect, error) {
	if e.Hide {
		return render.Hide{}, nil
	}
	if e.Swap < 0 {
		return nil, fmt.Errorf("swap %d is not a gid", e.Swap)
	}
	if e.Swap > 0 {
		return render.Swap{To: tmap.FrameOf(e.Swap)}, nil
	}
	if e.Tint == "" {
		return tmap.NoEffect, nil
	}
	c, err := parseTint(e.Tint)
	if err != nil {
		return nil, err
	}
	return render.Tint{Color: c}, nil
}

func parseTint(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("tint %q must be #RRGGBB or #RRGGBBAA", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("tint %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
