/*
Package base64 implements the standard Base64 alphabet (RFC 4648, "+/" with
"=" padding) as used by TMX layer data.

Both directions accept a destination slice so that callers decoding many layers
can reuse one buffer.
*/
package base64

import (
	"errors"
	"fmt"
)

const (
	encodeTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	padChar     = '='
	invalid     = 0xff
)

var (
	// ErrInputLength is returned when the encoded text is not a multiple of 4.
	ErrInputLength = errors.New("base64: input length is not a multiple of 4")
	// ErrMalformedPadding is returned when more than two '=' close the input.
	ErrMalformedPadding = errors.New("base64: too many padding characters")
)

// InvalidCharacterError reports a byte outside the alphabet.
type InvalidCharacterError struct {
	Offset int
	Char   byte
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("base64: invalid character %q (code %d) at position %d", e.Char, e.Char, e.Offset)
}

// decodeTable maps every byte value to its 6-bit value or `invalid`.
var decodeTable [256]byte

func init() {
	for i := range decodeTable {
		decodeTable[i] = invalid
	}
	for i := 0; i < len(encodeTable); i++ {
		decodeTable[encodeTable[i]] = byte(i)
	}
}

// EncodedLen returns the length in bytes of the encoding of n source bytes.
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// EncodeToString returns the Base64 encoding of src.
func EncodeToString(src []byte) string {
	return string(AppendEncode(make([]byte, 0, EncodedLen(len(src))), src))
}

// AppendEncode appends the Base64 encoding of src to dst and returns the
// extended buffer.
func AppendEncode(dst, src []byte) []byte {
	full := len(src) / 3 * 3
	for i := 0; i < full; i += 3 {
		v := uint(src[i])<<16 | uint(src[i+1])<<8 | uint(src[i+2])
		dst = append(dst,
			encodeTable[v>>18&0x3f],
			encodeTable[v>>12&0x3f],
			encodeTable[v>>6&0x3f],
			encodeTable[v&0x3f],
		)
	}

	switch len(src) - full {
	case 1:
		v := uint(src[full]) << 16
		dst = append(dst, encodeTable[v>>18&0x3f], encodeTable[v>>12&0x3f], padChar, padChar)
	case 2:
		v := uint(src[full])<<16 | uint(src[full+1])<<8
		dst = append(dst, encodeTable[v>>18&0x3f], encodeTable[v>>12&0x3f], encodeTable[v>>6&0x3f], padChar)
	}
	return dst
}

// DecodeString returns the bytes represented by the Base64 string s.
func DecodeString(s string) ([]byte, error) {
	return AppendDecode(nil, s)
}

// AppendDecode appends the bytes represented by s to dst. dst is truncated
// first; its capacity is reused when large enough.
func AppendDecode(dst []byte, s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInputLength, len(s))
	}

	need := len(s) / 4 * 3
	if cap(dst) < need {
		dst = make([]byte, 0, need)
	}
	dst = dst[:0]
	if len(s) == 0 {
		return dst, nil
	}

	pad := 0
	for pad < len(s) && s[len(s)-1-pad] == padChar {
		pad++
		if pad > 2 {
			return nil, ErrMalformedPadding
		}
	}

	// every character before the padding must be in the alphabet
	body := len(s) - pad
	var group [4]byte
	for i := 0; i < body; i++ {
		v := decodeTable[s[i]]
		if v == invalid {
			return nil, InvalidCharacterError{Offset: i, Char: s[i]}
		}
		group[i%4] = v
		if i%4 == 3 {
			dst = append(dst,
				group[0]<<2|group[1]>>4,
				group[1]<<4|group[2]>>2,
				group[2]<<6|group[3],
			)
		}
	}

	// trailing partial group: 2 symbols carry 1 byte, 3 carry 2
	switch body % 4 {
	case 1:
		return nil, ErrMalformedPadding
	case 2:
		dst = append(dst, group[0]<<2|group[1]>>4)
	case 3:
		dst = append(dst, group[0]<<2|group[1]>>4, group[1]<<4|group[2]>>2)
	}
	return dst, nil
}
