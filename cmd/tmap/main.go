package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/voidshard/tmap"
	"github.com/voidshard/tmap/index"
	"github.com/voidshard/tmap/render"
)

const desc = `Inspects, renders & indexes Tiled (.tmx) maps.

Maps may be zlib compressed (.tmxz); if "map.tmx" does not exist but
"map.tmxz" does, the latter is read.`

var cli struct {
	Config  string `short:"c" help:"yaml config file (effects, scale, output)"`
	Verbose bool   `short:"v" help:"log what the loader is doing"`

	Info struct {
		Map string `arg help:"map to describe"`
	} `cmd help:"print map size, tilesets, layers & objects"`

	Render struct {
		Map    string        `arg help:"map to render"`
		Output string        `short:"o" help:"where to write the png. Defaults to config output or map name + .png"`
		X      float64       `default:"0" help:"left edge of the view in px"`
		Y      float64       `default:"0" help:"top edge of the view in px"`
		Width  float64       `default:"0" help:"width of the view in px (0: whole map)"`
		Height float64       `default:"0" help:"height of the view in px (0: whole map)"`
		Scale  float64       `default:"0" help:"scale the output (0: config scale or 1)"`
		At     time.Duration `default:"0s" help:"time into tile animations"`
	} `cmd help:"draw a map (or part of one) to a png"`

	Index struct {
		Map  string `arg help:"map to index"`
		DB   string `default:"tmap.sqlite" help:"index database file"`
		Name string `short:"n" help:"name to store the map under (default: file name)"`
	} `cmd help:"write a map's tiles, properties & objects to a sqlite index"`

	Query struct {
		DB       string `arg help:"index database file"`
		Map      string `required help:"name of the stored map"`
		Layer    string `help:"tile layer to read a region of"`
		X0       int    `default:"0" help:"x coord of region, top left corner"`
		Y0       int    `default:"0" help:"y coord of region, top left corner"`
		X1       int    `default:"0" help:"x coord of region, bottom right corner (exclusive)"`
		Y1       int    `default:"0" help:"y coord of region, bottom right corner (exclusive)"`
		Property string `short:"p" help:"find tiles with this property (key or key=value) instead"`
		Objects  bool   `help:"list objects instead"`
	} `cmd help:"read tiles or objects back out of an index"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("tmap"), kong.Description(desc))

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		panic(err)
	}

	logger := log.New(os.Stderr, "tmap: ", log.LstdFlags)
	mcfg := tmap.DefaultConfig()
	if cli.Verbose {
		mcfg.Logger = logger
	}

	switch ctx.Command() {
	case "info <map>":
		err = info(mcfg)
	case "render <map>":
		err = draw(mcfg, cfg)
	case "index <map>":
		err = indexMap(mcfg)
	case "query <db>":
		err = query()
	default:
		err = fmt.Errorf("unknown command %s", ctx.Command())
	}
	if err != nil {
		logger.Fatal(err)
	}
}

func info(mcfg *tmap.Config) error {
	m, err := tmap.Open(cli.Info.Map, mcfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %dx%d tiles of %dx%d px, background %v\n", cli.Info.Map, m.Width(), m.Height(), m.TileWidth(), m.TileHeight(), m.Background())
	for _, k := range m.Properties().Keys() {
		v, _ := m.Properties().String(k)
		fmt.Printf("  %s=%s\n", k, v)
	}
	for _, ts := range m.Tilesets() {
		fmt.Printf("tileset %s: gids [%d %d) from %s\n", ts.Name(), ts.BeginGID(), ts.EndGID(), ts.Source())
	}
	for _, l := range m.TileLayers() {
		fmt.Printf("layer %q: %dx%d opacity %d\n", l.Name(), l.Width(), l.Height(), l.Opacity())
	}
	for _, o := range m.Objects() {
		fmt.Printf("object %q (%s) in %q: %s at %.1f,%.1f %.1fx%.1f\n", o.Name, o.Type, o.Group, o.Shape, o.Bounds.X, o.Bounds.Y, o.Bounds.Width, o.Bounds.Height)
	}
	return nil
}

func draw(mcfg *tmap.Config, cfg *config) error {
	m, err := tmap.Open(cli.Render.Map, mcfg)
	if err != nil {
		return err
	}

	for _, e := range cfg.Effects {
		effect, err := e.effect()
		if err != nil {
			return err
		}
		if err := m.AssignTileEffect(e.Property, e.Value, effect); err != nil {
			return err
		}
	}
	animate(m, cli.Render.At)

	w, h := cli.Render.Width, cli.Render.Height
	if w <= 0 {
		w = float64(m.Width() * m.TileWidth())
	}
	if h <= 0 {
		h = float64(m.Height() * m.TileHeight())
	}
	view := tmap.ViewAt(cli.Render.X, cli.Render.Y, w, h)

	target := render.NewTarget(view)
	m.Draw(target, view)

	scale := cli.Render.Scale
	if scale <= 0 {
		scale = cfg.Scale
	}

	output := cli.Render.Output
	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		output = strings.TrimSuffix(cli.Render.Map, filepath.Ext(cli.Render.Map)) + ".png"
	}

	err = render.SavePNG(output, render.Scale(target.Image(), scale))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

// animate sets every animated tile with no other effect to its frame at t.
func animate(m *tmap.Map, t time.Duration) {
	for _, ts := range m.Tilesets() {
		for local := 0; local < ts.TileCount(); local++ {
			frames := ts.Animation(local)
			if len(frames) == 0 || ts.Effect(local) != tmap.NoEffect {
				continue
			}
			a := tmap.NewAnimation(frames)
			a.Advance(t)
			ts.SetTileEffect(local, a)
		}
	}
}

func indexMap(mcfg *tmap.Config) error {
	m, err := tmap.Open(cli.Index.Map, mcfg)
	if err != nil {
		return err
	}

	name := cli.Index.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cli.Index.Map), filepath.Ext(cli.Index.Map))
	}

	idx, err := index.Open(cli.Index.DB)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.Put(name, m); err != nil {
		return err
	}
	fmt.Printf("indexed %s as %q in %s\n", cli.Index.Map, name, idx.Filename())
	return nil
}

func query() error {
	if !fileExists(cli.Query.DB) {
		return fmt.Errorf("index not found: %s", cli.Query.DB)
	}
	idx, err := index.Open(cli.Query.DB)
	if err != nil {
		return err
	}
	defer idx.Close()

	if cli.Query.Objects {
		objs, err := idx.Objects(cli.Query.Map)
		if err != nil {
			return err
		}
		for _, o := range objs {
			fmt.Printf("%s\t%s\t%s\t%s\t%.1f,%.1f\t%.1fx%.1f\t%d\t%v\n", o.Group, o.Name, o.Type, o.Shape, o.X, o.Y, o.Width, o.Height, o.GID, o.Properties)
		}
		return nil
	}

	var tiles []*index.Tile
	if cli.Query.Property != "" {
		key, value := parseProp(cli.Query.Property)
		tiles, err = idx.WithProperty(cli.Query.Map, key, value)
	} else {
		tiles, err = idx.Region(cli.Query.Map, cli.Query.Layer, cli.Query.X0, cli.Query.Y0, cli.Query.X1, cli.Query.Y1)
	}
	if err != nil {
		return err
	}
	for _, t := range tiles {
		fmt.Printf("%s\t%d,%d\t%d\t%s\t%v\n", t.Layer, t.X, t.Y, t.GID, t.Tileset, t.Properties)
	}
	return nil
}

// parseProp splits "key=value", a bare key matches any value.
func parseProp(in string) (string, string) {
	bits := strings.SplitN(in, "=", 2)
	if len(bits) == 1 {
		return bits[0], ""
	}
	return bits[0], bits[1]
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
