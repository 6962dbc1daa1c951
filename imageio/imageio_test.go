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


package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// testImage returns a 4x3 image with a distinct colour in each pixel.
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.Set(x, y, color.RGBA{uint8(60 * x), uint8(100 * y), 200, 255})
		}
	}
	return img
}

func TestTypeFromName(t *testing.T) {
	cases := map[string]string{
		"icons/marker.png": "png",
		"ortho.TIF":        "tiff",
		"ortho.tiff":       "tiff",
		"photo.jpg":        "jpeg",
		"photo.jpeg":       "jpeg",
		"/a/b/c.webp":      "webp",
		"no_extension":     "",
		"archive.tar.bmp":  "bmp",
	}
	for name, want := range cases {
		if got := TypeFromName(name); got != want {
			t.Errorf("TypeFromName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestTypes(t *testing.T) {
	want := []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}
	if got := NewFactory().Types(); !slices.Equal(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestLosslessFormats(t *testing.T) {
	src := testImage()
	encoders := map[string]func(io.Writer, image.Image) error{
		"png":  png.Encode,
		"bmp":  bmp.Encode,
		"tiff": func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) },
	}

	f := NewFactory()
	dir := t.TempDir()
	for typ, enc := range encoders {
		name := filepath.Join(dir, "img."+typ)
		var buf bytes.Buffer
		if err := enc(&buf, src); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}

		r, err := f.Open(name, "")
		if err != nil {
			t.Errorf("%s: %v", typ, err)
			continue
		}
		if r.Width() != 4 || r.Height() != 3 {
			t.Errorf("%s: size %dx%d", typ, r.Width(), r.Height())
		}
		got, err := ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.Pix, src.Pix) {
			t.Errorf("%s: pixels differ", typ)
		}
	}
}

func TestLossyFormats(t *testing.T) {
	src := testImage()
	f := NewFactory()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	r, err := f.Decode(&buf, "jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 4 || r.Height() != 3 {
		t.Errorf("jpeg: size %dx%d", r.Width(), r.Height())
	}

	buf.Reset()
	if err := gif.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}
	r, err = f.Decode(&buf, "GIF")
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 4 || r.Height() != 3 {
		t.Errorf("gif: size %dx%d", r.Width(), r.Height())
	}
}

func TestReadRegion(t *testing.T) {
	r := NewReader(testImage())

	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := r.Read(1, 1, dst); err != nil {
		t.Fatal(err)
	}
	want := color.RGBA{60, 100, 200, 255}
	if got := dst.RGBAAt(0, 0); got != want {
		t.Errorf("(0,0) = %v, want %v", got, want)
	}
	want = color.RGBA{120, 200, 200, 255}
	if got := dst.RGBAAt(1, 1); got != want {
		t.Errorf("(1,1) = %v, want %v", got, want)
	}

	// the region may extend beyond the image
	if err := r.Read(3, 2, dst); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("outside pixel = %v", got)
	}

	if err := r.Read(4, 0, dst); err == nil {
		t.Error("read outside the image succeeded")
	}
}

func TestErrors(t *testing.T) {
	f := NewFactory()
	if _, err := f.Open("map.svg", ""); !errors.Is(err, ErrUnknownType) {
		t.Errorf("svg: got %v", err)
	}
	if _, err := f.Decode(strings.NewReader("not an image"), "webp"); err == nil {
		t.Error("decoding garbage succeeded")
	}
	if _, err := f.Open(filepath.Join(t.TempDir(), "missing.png"), ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestRegister(t *testing.T) {
	f := NewFactory()
	f.Register("Solid", func(io.Reader) (image.Image, error) {
		return image.NewUniform(color.White), nil
	})
	r, err := f.Decode(nil, "solid")
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() <= 0 {
		t.Error("no size")
	}
}
