package tmap

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/voidshard/tmap/base64"
)

const (
	// Tile data encodings
	EncodingXML    = "" // one <tile gid=".."/> per cell
	EncodingCSV    = "csv"
	EncodingBase64 = "base64"
)

// decodeGIDs reads the width*height gids of a layer's <data> in row-major
// order.
func decodeGIDs(width, height int, d *xmlData, layer string) ([]int, error) {
	if _, err := cellCount(width, height, layer); err != nil {
		return nil, err
	}
	switch d.Encoding {
	case EncodingBase64:
		return decodeBase64(width, height, d, layer)
	case EncodingCSV:
		return decodeCSV(width, height, d.Text, layer)
	case EncodingXML:
		return decodeXMLTiles(width, height, d.Tiles, layer)
	}
	return nil, fmt.Errorf("%w: encoding %q in layer %q", ErrUnsupportedFormat, d.Encoding, layer)
}

// maxLayerCells bounds width*height of a single layer.
const maxLayerCells = 1 << 28

// cellCount returns width*height, refusing negative sizes and products that
// overflow or exceed maxLayerCells.
func cellCount(width, height int, layer string) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: layer %q is %dx%d", ErrMalformedInput, layer, width, height)
	}
	if width > 0 && height > maxLayerCells/width {
		return 0, fmt.Errorf("%w: layer %q is %dx%d, more than %d tiles", ErrMalformedInput, layer, width, height, maxLayerCells)
	}
	return width * height, nil
}

// cleanText drops everything outside printable ASCII and trims the ends.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < ' ' || r > '~' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// decodeBase64 reads little endian int32 gids, possibly compressed.
func decodeBase64(width, height int, d *xmlData, layer string) ([]int, error) {
	switch d.Compression {
	case CompressionNone, CompressionZlib, CompressionGzip:
	default:
		return nil, fmt.Errorf("%w: compression %q in layer %q", ErrUnsupportedFormat, d.Compression, layer)
	}

	raw, err := base64.DecodeString(cleanText(d.Text))
	if err != nil {
		return nil, fmt.Errorf("%w: layer %q: %w", ErrMalformedInput, layer, err)
	}
	raw, err = Decompress(d.Compression, raw)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", layer, err)
	}

	const size = 4
	want, err := cellCount(width, height, layer)
	if err != nil {
		return nil, err
	}
	if len(raw)%size != 0 || len(raw)/size != want {
		return nil, fmt.Errorf("%w: layer %q has %d bytes of tile data for %dx%d tiles", ErrSizeMismatch, layer, len(raw), width, height)
	}

	gids := make([]int, want)
	for i := range gids {
		gids[i] = int(int32(binary.LittleEndian.Uint32(raw[i*size:])))
	}
	return gids, nil
}

// decodeCSV reads comma separated gids. Whitespace around values is ignored.
func decodeCSV(width, height int, text, layer string) ([]int, error) {
	want, err := cellCount(width, height, layer)
	if err != nil {
		return nil, err
	}

	var tokens []string
	if strings.TrimSpace(text) != "" {
		tokens = strings.Split(text, ",")
	}
	if len(tokens) != want {
		return nil, fmt.Errorf("%w: layer %q has %d csv values for %dx%d tiles", ErrSizeMismatch, layer, len(tokens), width, height)
	}

	gids := make([]int, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		gid, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q csv value %d is %q", ErrMalformedInput, layer, i, tok)
		}
		gids[i] = gid
	}
	return gids, nil
}

// decodeXMLTiles reads one gid per <tile>. Tiles past width*height are ignored.
func decodeXMLTiles(width, height int, tiles []*xmlDataTile, layer string) ([]int, error) {
	want, err := cellCount(width, height, layer)
	if err != nil {
		return nil, err
	}
	if len(tiles) < want {
		return nil, fmt.Errorf("%w: layer %q has %d tiles, want %d (width %d height %d)", ErrSizeMismatch, layer, len(tiles), want, width, height)
	}

	gids := make([]int, 0, want)
	for i, t := range tiles {
		if len(gids) == want {
			break
		}
		if t.GID == nil {
			return nil, fmt.Errorf("%w: gid on tile %d of layer %q", ErrMissingAttribute, i, layer)
		}
		gid, err := strconv.Atoi(strings.TrimSpace(*t.GID))
		if err != nil {
			return nil, fmt.Errorf("%w: gid=%q on tile %d of layer %q", ErrNonIntegerAttribute, *t.GID, i, layer)
		}
		gids = append(gids, gid)
	}
	return gids, nil
}

// resolve pairs every gid with its tileset. Neighbouring cells are usually
// from the same tileset, so the last hit is tried before searching.
func resolve(gids []int, reg *Registry) []Cell {
	cells := make([]Cell, len(gids))
	var last *Tileset
	for i, gid := range gids {
		cells[i].GID = gid
		if gid == NoTile {
			continue
		}
		if last == nil || !last.Owns(gid) {
			last = reg.Find(gid)
			if last == nil {
				continue
			}
		}
		cells[i].Tileset = last
	}
	return cells
}
