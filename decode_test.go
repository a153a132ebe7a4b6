package tmap

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tmap/base64"
)

// encodeGIDs is what Tiled writes for base64 layers.
func encodeGIDs(t *testing.T, compression string, gids ...int) string {
	raw := make([]byte, 4*len(gids))
	for i, gid := range gids {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(int32(gid)))
	}
	data, err := Compress(compression, raw)
	require.NoError(t, err)
	return "\n   " + base64.EncodeToString(data) + "\n  "
}

func TestDecodeCSV(t *testing.T) {
	for _, text := range []string{"1,2,3,4", "\n1,2,\n3,4\n", " 1 , 2,3\t,4 "} {
		gids, err := decodeGIDs(2, 2, &xmlData{Encoding: EncodingCSV, Text: text}, "l")
		assert.Nil(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, gids)
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	_, err := decodeGIDs(2, 2, &xmlData{Encoding: EncodingCSV, Text: "1,2,3"}, "ground")
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	assert.Contains(t, err.Error(), `"ground"`)

	_, err = decodeGIDs(2, 2, &xmlData{Encoding: EncodingCSV, Text: "1,2,3,4,5"}, "ground")
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	_, err = decodeGIDs(2, 2, &xmlData{Encoding: EncodingCSV, Text: "1,x,3,4"}, "ground")
	assert.True(t, errors.Is(err, ErrMalformedInput))
	assert.Contains(t, err.Error(), `value 1 is "x"`)

	_, err = decodeGIDs(2, 2, &xmlData{Encoding: EncodingCSV, Text: "1,2,,4"}, "ground")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	// whitespace only is no values at all
	gids, err := decodeGIDs(0, 0, &xmlData{Encoding: EncodingCSV, Text: " \n "}, "empty")
	assert.Nil(t, err)
	assert.Len(t, gids, 0)

	_, err = decodeGIDs(1, 1, &xmlData{Encoding: EncodingCSV, Text: " \n "}, "empty")
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestDecodeLayerSize(t *testing.T) {
	// a full size layer with almost no data fails without allocating for it
	const side = 1 << 14
	data := []*xmlData{
		{Encoding: EncodingCSV, Text: "1,2"},
		{Encoding: EncodingBase64, Text: encodeGIDs(t, CompressionNone, 1, 2)},
		{Tiles: []*xmlDataTile{{}, {}}},
	}
	for _, d := range data {
		_, err := decodeGIDs(side, side, d, "big")
		assert.True(t, errors.Is(err, ErrSizeMismatch), "encoding %q: %v", d.Encoding, err)
	}

	cases := []struct {
		name          string
		width, height int
	}{
		{"overflow", math.MaxInt, 2},
		{"overflow to zero", math.MaxInt/2 + 1, 4},
		{"too many cells", 1 << 20, 1 << 20},
		{"negative width", -1, 4},
		{"negative height", 4, -2},
	}
	for _, c := range cases {
		for _, d := range append(data, &xmlData{Encoding: EncodingCSV, Text: " "}, &xmlData{}) {
			_, err := decodeGIDs(c.width, c.height, d, "l")
			assert.True(t, errors.Is(err, ErrMalformedInput), "%s, encoding %q: %v", c.name, d.Encoding, err)
		}
	}

	// zero cells need empty data in every encoding
	for _, d := range []*xmlData{
		{Encoding: EncodingCSV, Text: " \n "},
		{Encoding: EncodingBase64, Text: ""},
		{Encoding: EncodingBase64, Compression: CompressionZlib, Text: encodeGIDs(t, CompressionZlib)},
		{},
	} {
		gids, err := decodeGIDs(0, 3, d, "empty")
		assert.Nil(t, err, d.Encoding)
		assert.Len(t, gids, 0, d.Encoding)
	}
	_, err := decodeGIDs(0, 3, &xmlData{Encoding: EncodingCSV, Text: "1"}, "empty")
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	_, err = decodeGIDs(3, 0, &xmlData{Encoding: EncodingBase64, Text: encodeGIDs(t, CompressionNone, 1)}, "empty")
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestDecodeBase64(t *testing.T) {
	want := []int{1, 2, 3, 4, 0, -1}

	for _, compression := range []string{CompressionNone, CompressionZlib, CompressionGzip} {
		d := &xmlData{
			Encoding:    EncodingBase64,
			Compression: compression,
			Text:        encodeGIDs(t, compression, want...),
		}
		gids, err := decodeGIDs(3, 2, d, "l")
		assert.Nil(t, err, compression)
		assert.Equal(t, want, gids, compression)
	}

	// as written by Tiled
	gids, err := decodeGIDs(2, 2, &xmlData{Encoding: EncodingBase64, Text: "\r\n  AQAAAAIAAAADAAAABAAAAA==\r\n"}, "l")
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, gids)
}

func TestDecodeBase64Errors(t *testing.T) {
	_, err := decodeGIDs(2, 2, &xmlData{Encoding: EncodingBase64, Compression: "lzma", Text: "AAAA"}, "l")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = decodeGIDs(1, 1, &xmlData{Encoding: EncodingBase64, Text: "AQ*A"}, "l")
	assert.True(t, errors.Is(err, ErrMalformedInput))
	var cerr base64.InvalidCharacterError
	assert.True(t, errors.As(err, &cerr))
	assert.Equal(t, 2, cerr.Offset)

	_, err = decodeGIDs(1, 1, &xmlData{Encoding: EncodingBase64, Text: "AQAAAA"}, "l")
	assert.True(t, errors.Is(err, ErrMalformedInput))
	assert.True(t, errors.Is(err, base64.ErrInputLength))

	_, err = decodeGIDs(1, 1, &xmlData{Encoding: EncodingBase64, Compression: CompressionZlib, Text: "AQAAAA=="}, "l")
	assert.True(t, errors.Is(err, ErrCompression))

	_, err = decodeGIDs(3, 1, &xmlData{Encoding: EncodingBase64, Text: encodeGIDs(t, CompressionNone, 1, 2, 3, 4)}, "l")
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	// 5 bytes is not a whole number of gids
	_, err = decodeGIDs(1, 1, &xmlData{Encoding: EncodingBase64, Text: "AQAAAAI="}, "l")
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestDecodeXMLTiles(t *testing.T) {
	str := func(s string) *string { return &s }

	tiles := []*xmlDataTile{{GID: str("1")}, {GID: str("0")}, {GID: str(" 7 ")}, {GID: str("2")}}
	gids, err := decodeGIDs(3, 1, &xmlData{Tiles: tiles}, "l")
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 0, 7}, gids)

	_, err = decodeGIDs(5, 1, &xmlData{Tiles: tiles}, "overlay")
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	assert.Contains(t, err.Error(), `"overlay" has 4 tiles, want 5`)

	_, err = decodeGIDs(2, 1, &xmlData{Tiles: []*xmlDataTile{{GID: str("1")}, {}}}, "l")
	assert.True(t, errors.Is(err, ErrMissingAttribute))

	_, err = decodeGIDs(2, 1, &xmlData{Tiles: []*xmlDataTile{{GID: str("1")}, {GID: str("one")}}}, "l")
	assert.True(t, errors.Is(err, ErrNonIntegerAttribute))
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := decodeGIDs(1, 1, &xmlData{Encoding: "yaml", Text: "1"}, "l")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestResolve(t *testing.T) {
	a := newTileset("a", 1, 4)
	b := newTileset("b", 10, 5)
	r := &Registry{}
	r.Add(a)
	r.Add(b)
	require.NoError(t, r.Sort())

	cells := resolve([]int{0, 1, 2, 12, 7, 4, 14, 15}, r)
	want := []*Tileset{nil, a, a, b, nil, a, b, nil}

	require.Len(t, cells, len(want))
	for i, c := range cells {
		assert.True(t, want[i] == c.Tileset, "cell %d", i)
	}
	assert.Equal(t, 12, cells[3].GID)
	assert.Equal(t, 7, cells[4].GID)
	assert.Equal(t, 2, cells[3].Local())
}
