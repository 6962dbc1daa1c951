// seehuhn.de/go/carto - a cartographic rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package imageio reads raster images for point markers and raster data
// sources.
//
// Decoders are looked up by a type string such as "png" or "tiff" in a
// [Factory]. When no type is given, it is derived from the file name
// extension.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnknownType is returned for image types without a registered decoder.
var ErrUnknownType = errors.New("imageio: unknown image type")

// Reader gives access to the pixels of a decoded image.
type Reader interface {
	Width() int
	Height() int

	// Read copies the region of the image with top-left corner (x, y)
	// and the size of dst into dst. Parts of the region outside the
	// image are left transparent.
	Read(x, y int, dst *image.RGBA) error
}

// DecodeFunc decodes an image from r.
type DecodeFunc func(r io.Reader) (image.Image, error)

// Factory maps image types to decoders. It is safe for concurrent use.
type Factory struct {
	mu      sync.RWMutex
	decoder map[string]DecodeFunc
}

// NewFactory returns a factory with decoders for png, jpeg, gif, tiff, bmp
// and webp images.
func NewFactory() *Factory {
	f := &Factory{decoder: make(map[string]DecodeFunc)}
	f.Register("png", png.Decode)
	f.Register("jpeg", jpeg.Decode)
	f.Register("gif", gif.Decode)
	f.Register("tiff", tiff.Decode)
	f.Register("bmp", bmp.Decode)
	f.Register("webp", webp.Decode)
	return f
}

// Register adds or replaces the decoder for the given type.
func (f *Factory) Register(typ string, decode DecodeFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decoder[strings.ToLower(typ)] = decode
}

// Types returns the sorted list of registered types.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Sorted(maps.Keys(f.decoder))
}

var extensionTypes = map[string]string{
	".jpg":  "jpeg",
	".tif":  "tiff",
	".tiff": "tiff",
}

// TypeFromName derives an image type from the extension of a file name.
func TypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if typ, ok := extensionTypes[ext]; ok {
		return typ
	}
	return strings.TrimPrefix(ext, ".")
}

// Open decodes the named file. If typ is empty, the type is derived from
// the file name.
func (f *Factory) Open(name, typ string) (Reader, error) {
	if typ == "" {
		typ = TypeFromName(name)
	}
	decode, err := f.lookup(typ)
	if err != nil {
		return nil, err
	}

	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	img, err := decode(bufio.NewReader(fd))
	if err != nil {
		return nil, fmt.Errorf("imageio: decoding %s: %w", name, err)
	}
	return NewReader(img), nil
}

// Decode decodes an image of the given type from r.
func (f *Factory) Decode(r io.Reader, typ string) (Reader, error) {
	decode, err := f.lookup(typ)
	if err != nil {
		return nil, err
	}
	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decoding %s image: %w", typ, err)
	}
	return NewReader(img), nil
}

func (f *Factory) lookup(typ string) (DecodeFunc, error) {
	f.mu.RLock()
	decode := f.decoder[strings.ToLower(typ)]
	f.mu.RUnlock()
	if decode == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typ)
	}
	return decode, nil
}

// NewReader returns a Reader for an image which is already in memory.
func NewReader(img image.Image) Reader {
	return &memReader{img: img}
}

type memReader struct {
	img image.Image
}

func (r *memReader) Width() int  { return r.img.Bounds().Dx() }
func (r *memReader) Height() int { return r.img.Bounds().Dy() }

func (r *memReader) Read(x, y int, dst *image.RGBA) error {
	b := r.img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return fmt.Errorf("imageio: read origin (%d, %d) outside %dx%d image",
			x, y, b.Dx(), b.Dy())
	}
	clear(dst.Pix)
	draw.Draw(dst, dst.Bounds(), r.img, b.Min.Add(image.Pt(x, y)), draw.Src)
	return nil
}

// ReadAll returns the whole image of r.
func ReadAll(r Reader) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, r.Width(), r.Height()))
	if err := r.Read(0, 0, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
