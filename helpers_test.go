package tmap

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTileSize = 16

// testImages serves tileset images from memory. Each tile is filled with
// tileColor of its local id.
func testImages() ImageLoaderFunc {
	sizes := map[string]image.Point{
		"terrain.png": {32, 32},
		"props.png":   {48, 16},
	}
	return func(path string) (image.Image, bool) {
		size, ok := sizes[filepath.Base(path)]
		if !ok {
			return nil, false
		}
		columns := size.X / testTileSize
		im := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				im.SetNRGBA(x, y, tileColor(x/testTileSize+(y/testTileSize)*columns))
			}
		}
		return im, true
	}
}

func tileColor(local int) color.NRGBA {
	return color.NRGBA{R: uint8(40 * (local + 1)), G: 10, B: 20, A: 255}
}

func testConfig() *Config {
	return &Config{Images: testImages()}
}

func openSimple(t *testing.T) *Map {
	t.Helper()
	m, err := Open(filepath.Join("testdata", "simple.tmx"), testConfig())
	require.NoError(t, err)
	return m
}

// gidMatrix returns a layer's gids row by row.
func gidMatrix(l *TileLayer) [][]int {
	out := make([][]int, l.Height())
	for y := range out {
		out[y] = make([]int, l.Width())
		for x := range out[y] {
			out[y][x] = l.GID(x, y)
		}
	}
	return out
}

// recorder keeps every sprite drawn.
type recorder struct {
	sprites []Sprite
}

func (r *recorder) Draw(s *Sprite) {
	r.sprites = append(r.sprites, *s)
}

// hideEffect draws nothing.
type hideEffect struct{}

func (hideEffect) Apply(*Sprite, DrawTarget) {}

// swapEffect draws another tile.
type swapEffect struct {
	to TileFrame
}

func (e swapEffect) Apply(s *Sprite, t DrawTarget) { t.Draw(s) }

func (e swapEffect) Frame() TileFrame { return e.to }
