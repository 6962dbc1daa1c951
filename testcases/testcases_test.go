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


package testcases

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"seehuhn.de/go/carto/raster"
)

var validName = regexp.MustCompile(`^[a-z0-9_]+$`)

func TestNames(t *testing.T) {
	seen := make(map[string]bool)
	for category, cases := range All {
		for _, tc := range cases {
			full := category + "_" + tc.Name
			if !validName.MatchString(tc.Name) {
				t.Errorf("invalid name %q", full)
			}
			if seen[full] {
				t.Errorf("duplicate name %q", full)
			}
			seen[full] = true
			if tc.Geometry == nil || tc.Geometry.IsEmpty() {
				t.Errorf("%s: no geometry", full)
			}
			if tc.Width <= 0 || tc.Height <= 0 {
				t.Errorf("%s: bad canvas size %dx%d", full, tc.Width, tc.Height)
			}
		}
	}
}

// TestRenderAll renders every scene and checks that something is drawn.
// The only scene which legitimately draws nothing consists of zero-length
// dashes with butt caps.
func TestRenderAll(t *testing.T) {
	for category, cases := range All {
		for _, tc := range cases {
			name := category + "_" + tc.Name
			t.Run(name, func(t *testing.T) {
				img := tc.Render()
				n := 0
				for i := 3; i < len(img.Pix); i += 4 {
					if img.Pix[i] > 0 {
						n++
					}
				}
				if name == "dash_dash_zero_butt" {
					if n != 0 {
						t.Errorf("%d pixels drawn, want 0", n)
					}
					return
				}
				if n == 0 {
					t.Error("nothing drawn")
				}
			})
		}
	}
}

func coverageSum(img *raster.Image) float64 {
	sum := 0.0
	for i := 3; i < len(img.Pix); i += 4 {
		sum += float64(img.Pix[i]) / 255
	}
	return sum
}

func TestSubpixelArea(t *testing.T) {
	for _, tc := range precisionCases {
		if _, ok := tc.Op.(Fill); !ok || !strings.HasPrefix(tc.Name, "subpixel") {
			continue
		}
		got := coverageSum(tc.Render())
		if math.Abs(got-24*24) > 1 {
			t.Errorf("%s: area %.2f, want 576", tc.Name, got)
		}
	}
}

func find(t *testing.T, category, name string) TestCase {
	t.Helper()
	for _, tc := range All[category] {
		if tc.Name == name {
			return tc
		}
	}
	t.Fatalf("no test case %s_%s", category, name)
	return TestCase{}
}

func TestProjected(t *testing.T) {
	alpha := func(img *raster.Image, x, y int) uint8 { return img.Pixel(x, y).A }

	// map square 4..28 on a 0..32 extent covers device 8..56
	img := find(t, "projected", "extent_scale_2x").Render()
	if alpha(img, 32, 32) != 255 || alpha(img, 8, 8) != 255 || alpha(img, 55, 55) != 255 {
		t.Error("extent_scale_2x: square not filled")
	}
	if alpha(img, 7, 32) != 0 || alpha(img, 56, 32) != 0 {
		t.Error("extent_scale_2x: fill outside square")
	}

	// the apex of the triangle points up on the device
	img = find(t, "projected", "extent_y_up").Render()
	if alpha(img, 32, 40) != 255 {
		t.Error("extent_y_up: base not filled")
	}
	if alpha(img, 14, 20) != 0 {
		t.Error("extent_y_up: triangle is upside down")
	}

	// a square extent on a wide canvas is centred horizontally
	img = find(t, "projected", "extent_wide_canvas").Render()
	if alpha(img, 64, 32) != 255 || alpha(img, 20, 32) != 0 || alpha(img, 107, 32) != 0 {
		t.Error("extent_wide_canvas: square not centred")
	}

	// large map coordinates keep full precision
	img = find(t, "projected", "small_shape_large_offset").Render()
	if got := coverageSum(img); math.Abs(got-4) > 0.1 {
		t.Errorf("small_shape_large_offset: area %.3f, want 4", got)
	}
}

func TestHoleIsEmpty(t *testing.T) {
	for _, name := range []string{"polygon_with_hole", "polygon_with_hole_nonzero"} {
		img := find(t, "subpath", name).Render()
		if a := img.Pixel(32, 32).A; a != 0 {
			t.Errorf("%s: hole has alpha %d", name, a)
		}
		if a := img.Pixel(10, 32).A; a != 255 {
			t.Errorf("%s: ring has alpha %d", name, a)
		}
	}

	img := find(t, "large", "large_concentric_nonzero").Render()
	if img.Pixel(256, 256).A != 255 {
		t.Error("non-zero fill of nested squares left a hole")
	}
	img = find(t, "large", "large_concentric_evenodd").Render()
	if img.Pixel(256, 256).A != 0 {
		t.Error("even-odd fill of nested squares did not leave a hole")
	}
}
