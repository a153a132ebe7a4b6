package tmap

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type match struct {
	Frame TileFrame
	Value string
}

func TestNextTileEffect(t *testing.T) {
	m := openSimple(t)

	got := []match{}
	c := m.NextTileEffect("kind", EffectCursor{})
	for ; !c.Done(); c = m.NextTileEffect("kind", c) {
		require.True(t, c.Matched())
		got = append(got, match{c.Frame, c.Value})
	}

	// tileset then local id order
	assert.Equal(t, []match{
		{FrameOf(2), "door"},
		{FrameOf(3), "wall"},
		{FrameOf(4), "door"},
		{FrameOf(5), "door"},
	}, got)

	assert.True(t, m.NextTileEffect("kind", c).Done())
	assert.Equal(t, -1, c.Local())
	assert.Nil(t, c.Tileset())

	assert.True(t, m.NextTileEffect("no such property", EffectCursor{}).Done())
}

func TestEffectCursorSlot(t *testing.T) {
	m := openSimple(t)

	var zero EffectCursor
	assert.False(t, zero.Matched())
	assert.False(t, zero.Done())
	assert.Equal(t, NoEffect, zero.Effect())
	assert.True(t, errors.Is(zero.SetEffect(hideEffect{}), ErrNoMatch))

	c := m.NextTileEffect("locked", EffectCursor{})
	require.True(t, c.Matched())
	assert.Equal(t, "true", c.Value)
	assert.Equal(t, "terrain", c.Tileset().Name())
	assert.Equal(t, 3, c.Local())

	assert.Equal(t, NoEffect, c.Effect())
	require.NoError(t, c.SetEffect(hideEffect{}))
	assert.Equal(t, TileEffect(hideEffect{}), c.Effect())
	assert.Equal(t, TileEffect(hideEffect{}), m.TilesetForGID(4).EffectFor(4))
}

func TestAssignTileEffect(t *testing.T) {
	m := openSimple(t)
	e := hideEffect{}

	require.NoError(t, m.AssignTileEffect("kind", "door", e))

	doors := map[int]bool{2: true, 4: true, 5: true}
	for _, ts := range m.Tilesets() {
		for local := 0; local < ts.TileCount(); local++ {
			gid := ts.ToGlobal(local)
			if doors[gid] {
				assert.Equal(t, TileEffect(e), ts.Effect(local), "gid %d", gid)
			} else {
				assert.Equal(t, NoEffect, ts.Effect(local), "gid %d", gid)
			}
		}
	}

	// wildcard overwrites
	w := swapEffect{to: FrameOf(1)}
	require.NoError(t, m.AssignTileEffect("kind", "", w))
	for _, gid := range []int{2, 3, 4, 5} {
		assert.Equal(t, TileEffect(w), m.TilesetForGID(gid).EffectFor(gid), "gid %d", gid)
	}
	assert.Equal(t, NoEffect, m.TilesetForGID(1).EffectFor(1))

	assert.True(t, errors.Is(m.AssignTileEffect("kind", "door", nil), ErrNilEffect))
}

func TestAccessTileEffects(t *testing.T) {
	m := openSimple(t)
	require.NoError(t, m.AssignTileEffect("kind", "", hideEffect{}))

	values := []string{}
	m.AccessTileEffects("kind", func(value string, slot *TileEffect, frame TileFrame) {
		values = append(values, value)
		assert.Equal(t, TileEffect(hideEffect{}), *slot)
		*slot = nil
	})
	assert.Equal(t, []string{"door", "wall", "door", "door"}, values)

	// cleared slots are never nil
	for _, gid := range []int{2, 3, 4, 5} {
		assert.Equal(t, NoEffect, m.TilesetForGID(gid).EffectFor(gid))
	}
}

func TestTileFrames(t *testing.T) {
	m := openSimple(t)

	got := map[TileFrame]string{}
	for frame, value := range m.TileFrames("kind") {
		got[frame] = value
	}
	assert.Equal(t, map[TileFrame]string{
		FrameOf(2): "door",
		FrameOf(3): "wall",
		FrameOf(4): "door",
		FrameOf(5): "door",
	}, got)

	n := 0
	for range m.TileFrames("kind") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestAnimation(t *testing.T) {
	a := NewAnimation([]AnimationFrame{
		{Frame: FrameOf(1), Duration: 100 * time.Millisecond},
		{Frame: FrameOf(3), Duration: 50 * time.Millisecond},
	})
	assert.Equal(t, FrameOf(1), a.Frame())

	a.Advance(99 * time.Millisecond)
	assert.Equal(t, FrameOf(1), a.Frame())

	a.Advance(time.Millisecond)
	assert.Equal(t, FrameOf(3), a.Frame())

	a.Advance(50 * time.Millisecond)
	assert.Equal(t, FrameOf(1), a.Frame())

	a.Advance(-10 * time.Millisecond)
	assert.Equal(t, FrameOf(3), a.Frame())

	assert.Equal(t, NoFrame, NewAnimation(nil).Frame())
	assert.Equal(t, NoFrame, frameOf(NoEffect))
	assert.Equal(t, FrameOf(3), frameOf(a))
}

func TestDrawSprites(t *testing.T) {
	m := openSimple(t)
	view := ViewAt(0, 0, 64, 48)

	rec := &recorder{}
	m.Draw(rec, view)

	// background + 12 ground + 3 items + 2 overlay
	require.Len(t, rec.sprites, 18)

	bg := rec.sprites[0]
	assert.IsType(t, &image.Uniform{}, bg.Texture)
	assert.Equal(t, image.Rect(0, 0, 64, 48), bg.Source)

	// ground (1,1) is gid 4
	s := rec.sprites[1+5]
	assert.Equal(t, image.Rect(16, 16, 32, 32), s.Source)
	assert.Equal(t, Vec{16, 16}, s.Position)
	assert.Equal(t, uint8(255), s.Color.A)

	// items (1,0) is gid 5, the first tile of props
	s = rec.sprites[1+12]
	assert.Equal(t, image.Rect(0, 0, 16, 16), s.Source)
	assert.Equal(t, Vec{16, 0}, s.Position)
	assert.Equal(t, 48, s.Texture.Bounds().Dx())

	// overlay is half transparent
	s = rec.sprites[len(rec.sprites)-1]
	assert.Equal(t, uint8(128), s.Color.A)
	assert.Equal(t, Vec{16, 16}, s.Position)
}

func TestDrawHonoursEffects(t *testing.T) {
	m := openSimple(t)
	view := ViewAt(0, 0, 64, 48)

	require.NoError(t, m.AssignTileEffect("kind", "door", hideEffect{}))
	rec := &recorder{}
	m.Draw(rec, view)
	// 5 ground, 1 item & 1 overlay doors are hidden
	assert.Len(t, rec.sprites, 11)

	// walls draw as gid 2 instead
	require.NoError(t, m.AssignTileEffect("kind", "wall", swapEffect{to: FrameOf(2)}))
	rec = &recorder{}
	m.Draw(rec, view)
	for _, s := range rec.sprites {
		if s.Position.Y == 32 && s.Color.A == 255 && s.Texture.Bounds().Dx() == 32 {
			assert.Equal(t, image.Rect(16, 0, 32, 16), s.Source)
		}
	}

	// a frame from another tileset can't be drawn, the cell is skipped
	require.NoError(t, m.AssignTileEffect("kind", "wall", swapEffect{to: FrameOf(6)}))
	rec = &recorder{}
	m.Draw(rec, view)
	assert.Len(t, rec.sprites, 11-4)
}

func TestDrawTranslationAndCulling(t *testing.T) {
	m := openSimple(t)
	m.SetTranslation(Vec{0.5, 3.7})

	rec := &recorder{}
	m.DrawLayers(rec, ViewAt(0, 0, 16, 16), 1, 2)
	require.Len(t, rec.sprites, 1)
	assert.Equal(t, Vec{0, 3}, rec.sprites[0].Position)

	rec = &recorder{}
	m.Draw(rec, ViewAt(1000, 1000, 16, 16))
	assert.Len(t, rec.sprites, 1) // background only
}
