package tmap

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"io/ioutil"
)

const (
	// Compression formats of layer data & whole files
	CompressionNone = ""
	CompressionZlib = "zlib"
	CompressionGzip = "gzip"
)

// Decompress inflates data compressed with the given format.
func Decompress(format string, data []byte) ([]byte, error) {
	var (
		r   io.ReadCloser
		err error
	)
	switch format {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
	case CompressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompression, format, err)
	}
	defer r.Close()

	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompression, format, err)
	}
	return out, nil
}

// Compress is the inverse of Decompress.
func Compress(format string, data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	var w io.WriteCloser
	switch format {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		w = zlib.NewWriter(buf)
	case CompressionGzip:
		w = gzip.NewWriter(buf)
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedFormat, format)
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
