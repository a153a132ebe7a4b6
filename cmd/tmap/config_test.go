package main

import (
	"image"
	"image/color"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tmap"
	"github.com/voidshard/tmap/render"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Scale)

	path := filepath.Join(t.TempDir(), "tmap.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
scale: 2
output: out.png
effects:
  - property: kind
    value: door
    tint: "#ff000080"
  - property: hidden
    hide: true
  - property: nothing
  - property: kind
    value: wall
    swap: 3
  - property: kind
    swap: -1
`), 0644))

	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Scale)
	assert.Equal(t, "out.png", cfg.Output)
	require.Len(t, cfg.Effects, 5)

	e, err := cfg.Effects[0].effect()
	require.NoError(t, err)
	assert.Equal(t, render.Tint{Color: color.NRGBA{R: 255, A: 128}}, e)

	e, err = cfg.Effects[1].effect()
	require.NoError(t, err)
	assert.Equal(t, render.Hide{}, e)

	e, err = cfg.Effects[2].effect()
	require.NoError(t, err)
	assert.Equal(t, tmap.NoEffect, e)

	e, err = cfg.Effects[3].effect()
	require.NoError(t, err)
	assert.Equal(t, render.Swap{To: tmap.FrameOf(3)}, e)

	_, err = cfg.Effects[4].effect()
	assert.Error(t, err)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("effects:\n  - value: door\n"), 0644))
	_, err = loadConfig(path)
	assert.Error(t, err)
}

func TestParseTint(t *testing.T) {
	c, err := parseTint("#336699")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}, c)

	for _, in := range []string{"#fff", "#12345", "#gggggg"} {
		_, err := parseTint(in)
		assert.Error(t, err, in)
	}
}

func TestParseProp(t *testing.T) {
	k, v := parseProp("kind=door")
	assert.Equal(t, "kind", k)
	assert.Equal(t, "door", v)

	k, v = parseProp("kind")
	assert.Equal(t, "kind", k)
	assert.Equal(t, "", v)

	k, v = parseProp("a=b=c")
	assert.Equal(t, "a", k)
	assert.Equal(t, "b=c", v)
}

func TestAnimate(t *testing.T) {
	m, err := tmap.Open(filepath.Join("..", "..", "testdata", "simple.tmx"), &tmap.Config{
		Images: tmap.ImageLoaderFunc(func(string) (image.Image, bool) {
			return image.NewNRGBA(image.Rect(0, 0, 32, 32)), true
		}),
	})
	require.NoError(t, err)

	animate(m, 150*time.Millisecond)

	terrain := m.TilesetForGID(1)
	f, ok := terrain.Effect(0).(tmap.FrameEffect)
	require.True(t, ok)
	assert.Equal(t, tmap.FrameOf(3), f.Frame())
	assert.Equal(t, tmap.NoEffect, terrain.Effect(1))
}
