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
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ringPoints returns n points on a circle, counter-clockwise unless cw is
// set.
func ringPoints(cx, cy, radius float64, n int, cw bool) []vec.Vec2 {
	pts := make([]vec.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		if cw {
			a = -a
		}
		pts[i] = vec.Vec2{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

// ringShape is an "O": an outer and an inner polygon of opposite
// orientation.
func ringShape(size int) (outer, inner []vec.Vec2) {
	c := float64(size) / 2
	n := max(16, size/4)
	return ringPoints(c, c, float64(size)*0.45, n, false),
		ringPoints(c, c, float64(size)*0.30, n, true)
}

func BenchmarkFillRing(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasterizer(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			outer, inner := ringShape(size)
			p := &Path{}
			for _, ring := range [][]vec.Vec2{outer, inner} {
				p.MoveTo(ToSubpixel(ring[0]))
				for _, q := range ring[1:] {
					p.LineTo(ToSubpixel(q))
				}
				p.Close()
			}

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.FillEvenOdd(p.All(), func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorRing draws the same shape with x/image/vector.
func BenchmarkVectorRing(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})
			outer, inner := ringShape(size)

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				for _, ring := range [][]vec.Vec2{outer, inner} {
					for i, q := range ring {
						if i == 0 {
							r.MoveTo(float32(q.X), float32(q.Y))
						} else {
							r.LineTo(float32(q.X), float32(q.Y))
						}
					}
					r.ClosePath()
				}
				r.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// TestRingMatchesVector compares the coverage of the ring shape with
// x/image/vector, which uses a similar area-coverage algorithm. The
// vector rasterizer is made wider than the image, which selects its
// floating point code path; the fixed point path of small rasterizers
// accumulates rounding errors along steep edges.
func TestRingMatchesVector(t *testing.T) {
	const size = 64
	const oracleWidth = 1024
	outer, inner := ringShape(size)

	want := image.NewAlpha(image.Rect(0, 0, oracleWidth, size))
	vr := vector.NewRasterizer(oracleWidth, size)
	for _, ring := range [][]vec.Vec2{outer, inner} {
		for i, q := range ring {
			q = ToSubpixel(q).Mul(1.0 / SubpixelScale)
			if i == 0 {
				vr.MoveTo(float32(q.X), float32(q.Y))
			} else {
				vr.LineTo(float32(q.X), float32(q.Y))
			}
		}
		vr.ClosePath()
	}
	vr.Draw(want, want.Bounds(), image.NewUniform(color.Alpha{255}), image.Point{})

	got := NewImage(size, size)
	cv := NewCanvas(got)
	cv.Fill([][]vec.Vec2{outer, inner}, Black, false)

	var worst int
	for y := range size {
		for x := range size {
			d := absInt(int(got.Pixel(x, y).A) - int(want.AlphaAt(x, y).A))
			worst = max(worst, d)
		}
	}
	if worst > 2 {
		t.Errorf("alpha differs from x/image/vector by up to %d", worst)
	}
}
