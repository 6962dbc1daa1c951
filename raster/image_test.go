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

package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

var red = Color{255, 0, 0, 255}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#f00", red},
		{"#FF0000", red},
		{"#ff000080", Color{255, 0, 0, 128}},
		{"rgb(0, 128, 255)", Color{0, 128, 255, 255}},
		{"rgba(0,0,0,0.5)", Color{0, 0, 0, 128}},
		{"steelblue", Color{70, 130, 180, 255}},
		{"transparent", Transparent},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "#12", "#ggg", "rgb(1,2)", "rgb(1,2,300)", "rgba(1,2,3,2)", "nocolor"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrColor) {
			t.Errorf("%q: got %v", bad, err)
		}
	}

	if s := (Color{1, 2, 3, 255}).String(); s != "#010203" {
		t.Errorf("String = %s", s)
	}
}

func TestGammaTables(t *testing.T) {
	g := NewGamma(1)
	for i := range 256 {
		if got := g.FromLinear(g.ToLinear(uint8(i))); got != uint8(i) {
			t.Errorf("gamma 1: %d maps to %d", i, got)
		}
	}
	d := DefaultGamma()
	if d.Exponent() != DefaultGammaExponent || NewGamma(-1).Exponent() != DefaultGammaExponent {
		t.Error("wrong default exponent")
	}
	if d.FromLinear(-1) != 0 || d.FromLinear(2) != 255 {
		t.Error("FromLinear does not clamp")
	}
	// the linear table is too coarse for very dark values
	for i := 32; i < 256; i++ {
		if got := d.FromLinear(d.ToLinear(uint8(i))); absInt(int(got)-i) > 1 {
			t.Errorf("gamma 2.2: %d maps to %d", i, got)
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestBlendIsGammaCorrect(t *testing.T) {
	cases := []struct {
		gamma float64
		want  int
	}{
		{1, 128},
		{2.2, 186},
	}
	for _, tc := range cases {
		img := NewImage(1, 1)
		img.SetGamma(NewGamma(tc.gamma))
		img.Clear(Black)
		img.BlendPixel(0, 0, White, 0.5)
		got := img.Pixel(0, 0)
		if absInt(int(got.R)-tc.want) > 1 || got.R != got.G || got.G != got.B || got.A != 255 {
			t.Errorf("gamma %g: got %v, want grey level %d", tc.gamma, got, tc.want)
		}
	}
}

func TestBlendOverTransparent(t *testing.T) {
	img := NewImage(2, 1)
	img.BlendPixel(0, 0, red, 0.5)
	if got := img.Pixel(0, 0); got.R != 255 || got.G != 0 || absInt(int(got.A)-128) > 1 {
		t.Errorf("got %v", got)
	}
	img.BlendPixel(1, 0, red.WithOpacity(0), 1)
	if got := img.Pixel(1, 0); got != Transparent {
		t.Errorf("invisible color changed the pixel: %v", got)
	}
	// outside the image
	img.BlendPixel(5, 5, red, 1)
	img.SetPixel(-1, 0, red)
	if img.Pixel(7, 0) != Transparent {
		t.Error("pixel outside the image is not transparent")
	}
}

func TestCanvasFill(t *testing.T) {
	img := NewImage(32, 32)
	img.Clear(White)
	cv := NewCanvas(img)
	cv.FillRect(8, 8, 24, 24, red)

	for y := range 32 {
		for x := range 32 {
			inside := x >= 8 && x < 24 && y >= 8 && y < 24
			got := img.Pixel(x, y)
			if inside && got != red {
				t.Fatalf("pixel (%d,%d) = %v, want red", x, y, got)
			}
			if !inside && got != White {
				t.Fatalf("pixel (%d,%d) = %v, want white", x, y, got)
			}
		}
	}

	// a half-covered pixel column at the left edge of a second square
	cv.FillRect(0.5, 0, 4, 4, Black)
	if got := img.Pixel(0, 1); got == White || got == Black {
		t.Errorf("edge pixel not blended: %v", got)
	}
}

func TestCanvasStroke(t *testing.T) {
	img := NewImage(20, 20)
	cv := NewCanvas(img)

	cv.Stroke([][]vec.Vec2{{{X: 2, Y: 2}, {X: 7, Y: 7}}}, false, StrokeStyle{Width: 1}, red)
	for i := 2; i <= 7; i++ {
		if img.Pixel(i, i) != red {
			t.Errorf("hairline pixel (%d,%d) not set", i, i)
		}
	}
	if img.Pixel(3, 2) != Transparent {
		t.Error("hairline is more than one pixel wide")
	}

	cv.Stroke([][]vec.Vec2{{{X: 0, Y: 15}, {X: 20, Y: 15}}}, false,
		StrokeStyle{Width: 4, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter}, red)
	for y := 13; y < 17; y++ {
		if img.Pixel(10, y) != red {
			t.Errorf("wide line pixel (10,%d) = %v", y, img.Pixel(10, y))
		}
	}
	if img.Pixel(10, 12) != Transparent || img.Pixel(10, 17) != Transparent {
		t.Error("wide line too wide")
	}
}

// finishes runs fn and fails the test if fn does not return in time.
func finishes(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drawing did not finish")
	}
}

func TestHairlineFarOutside(t *testing.T) {
	img := NewImage(64, 64)
	cv := NewCanvas(img)

	finishes(t, func() {
		cv.Stroke([][]vec.Vec2{{{X: -1e10, Y: 32}, {X: 1e10, Y: 32.2}}}, false, StrokeStyle{Width: 1}, red)
		cv.Stroke([][]vec.Vec2{{{X: -1e30, Y: -1e30}, {X: -1e30, Y: 1e30}}}, true, StrokeStyle{Width: 1}, red)
		DrawLine(img, -1<<40, 5, 1<<40, 5, red)
	})

	for x := range 64 {
		if img.Pixel(x, 32) != red {
			t.Errorf("pixel (%d,32) = %v, want red", x, img.Pixel(x, 32))
		}
		if img.Pixel(x, 5) != red {
			t.Errorf("pixel (%d,5) = %v, want red", x, img.Pixel(x, 5))
		}
		if img.Pixel(x, 31) != Transparent || img.Pixel(x, 33) != Transparent {
			t.Fatalf("column %d: hairline is more than one pixel wide", x)
		}
	}
}

func TestClipSegment(t *testing.T) {
	box := rect.Rect{LLx: -1, LLy: -1, URx: 11, URy: 11}
	cases := []struct {
		a, b   vec.Vec2
		ok     bool
		ca, cb vec.Vec2
	}{
		{vec.Vec2{X: 1, Y: 2}, vec.Vec2{X: 5, Y: 7}, true, vec.Vec2{X: 1, Y: 2}, vec.Vec2{X: 5, Y: 7}},
		{vec.Vec2{X: -9, Y: 5}, vec.Vec2{X: 23, Y: 5}, true, vec.Vec2{X: -1, Y: 5}, vec.Vec2{X: 11, Y: 5}},
		{vec.Vec2{X: 5, Y: 5}, vec.Vec2{X: 5, Y: 37}, true, vec.Vec2{X: 5, Y: 5}, vec.Vec2{X: 5, Y: 11}},
		{vec.Vec2{X: -9, Y: -9}, vec.Vec2{X: -2, Y: 20}, false, vec.Vec2{}, vec.Vec2{}},
		{vec.Vec2{X: 12, Y: 0}, vec.Vec2{X: 12, Y: 10}, false, vec.Vec2{}, vec.Vec2{}},
		{vec.Vec2{X: 30, Y: -3}, vec.Vec2{X: -3, Y: 30}, false, vec.Vec2{}, vec.Vec2{}},
	}
	for i, tc := range cases {
		ca, cb, ok := clipSegment(tc.a, tc.b, box)
		if ok != tc.ok {
			t.Errorf("%d: ok = %t, want %t", i, ok, tc.ok)
			continue
		}
		if ok && (ca != tc.ca || cb != tc.cb) {
			t.Errorf("%d: got %v-%v, want %v-%v", i, ca, cb, tc.ca, tc.cb)
		}
	}
}

func TestComposite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			src.SetNRGBA(x, y, color.NRGBA{255, 0, 0, 255})
		}
	}

	img := NewImage(8, 8)
	img.Composite(src, image.Rect(1, 1, 3, 3))
	if img.Pixel(1, 1) != red || img.Pixel(2, 2) != red {
		t.Error("unscaled composite missing")
	}
	if img.Pixel(0, 0) != Transparent || img.Pixel(3, 3) != Transparent {
		t.Error("unscaled composite too large")
	}

	img.Composite(src, image.Rect(4, 4, 8, 8))
	if got := img.Pixel(6, 6); got != red {
		t.Errorf("scaled composite: %v", got)
	}

	cv := NewCanvas(NewImage(8, 8))
	cv.DrawImage(src, vec.Vec2{X: 4, Y: 4})
	if cv.Image.Pixel(3, 3) != red || cv.Image.Pixel(4, 4) != red || cv.Image.Pixel(5, 5) != Transparent {
		t.Error("DrawImage not centred")
	}

	view := img.NRGBA()
	if view.NRGBAAt(1, 1) != (color.NRGBA{255, 0, 0, 255}) {
		t.Error("NRGBA view does not share pixels")
	}
}
