package tmap

import (
	"encoding/xml"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExtCompressed is the extension of a zlib compressed map file.
const ExtCompressed = ".tmxz"

// fileExists returns if the given path exists (and is not a dir).
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// resolvePath returns path relative to dir, unless it is absolute or starts
// with ~.
func resolvePath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "~") {
		return path
	}
	return filepath.Join(dir, path)
}

// readDocument returns the contents of a map or tileset file.
//
// A file ending in .tmxz is inflated before returning. If path does not exist
// but path+"z" does, that file is inflated instead.
func readDocument(path string) ([]byte, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceLoad, path, err)
	}

	compressed := strings.HasSuffix(path, ExtCompressed)
	if !compressed && !fileExists(path) && fileExists(path+"z") {
		path += "z"
		compressed = true
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceLoad, err)
	}
	if !compressed {
		return data, nil
	}

	data, err = Decompress(CompressionZlib, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// loadDocument reads path and parses it into v.
func loadDocument(path string, v interface{}) error {
	data, err := readDocument(path)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedInput, path, err)
	}
	return nil
}
