package tmap

import (
	"image"
	"io/ioutil"
	"log"

	"github.com/fogleman/gg"
	"github.com/mitchellh/go-homedir"
)

// ImageLoader turns a file path into pixels. Failure is reported as false;
// the loader turns that into an ErrResourceLoad for the caller.
type ImageLoader interface {
	LoadImage(path string) (image.Image, bool)
}

// ImageLoaderFunc adapts a function to an ImageLoader.
type ImageLoaderFunc func(path string) (image.Image, bool)

func (f ImageLoaderFunc) LoadImage(path string) (image.Image, bool) {
	return f(path)
}

// Config includes settings for loading a map
type Config struct {
	// where tileset images come from
	Images ImageLoader

	// diagnostics while loading, never nil after DefaultConfig
	Logger *log.Logger
}

// DefaultConfig returns a config that loads images from disk and discards logs.
func DefaultConfig() *Config {
	logger := log.New(ioutil.Discard, "", 0)
	return &Config{
		Images: fileImages{logger: logger},
		Logger: logger,
	}
}

// withDefaults fills whatever the caller left unset.
func (c *Config) withDefaults() *Config {
	out := DefaultConfig()
	if c == nil {
		return out
	}
	if c.Logger != nil {
		out.Logger = c.Logger
	}
	if c.Images != nil {
		out.Images = c.Images
	}
	if fi, ok := out.Images.(fileImages); ok {
		fi.logger = out.Logger
		out.Images = fi
	}
	return out
}

// fileImages decodes png/jpeg/gif files from disk.
type fileImages struct {
	logger *log.Logger
}

func (f fileImages) LoadImage(path string) (image.Image, bool) {
	path, err := homedir.Expand(path)
	if err != nil {
		f.logger.Printf("expanding %s: %v", path, err)
		return nil, false
	}
	im, err := gg.LoadImage(path)
	if err != nil {
		f.logger.Printf("loading image %s: %v", path, err)
		return nil, false
	}
	return im, true
}
