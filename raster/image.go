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
	"image"

	"golang.org/x/image/draw"
)

// Image is a 32-bit RGBA pixel buffer with non-premultiplied channels,
// stored row by row without padding.
//
// Partial coverage is blended in linear light using the image's gamma
// tables.
type Image struct {
	Width, Height int
	Pix           []uint8

	gamma *Gamma
}

// NewImage returns a transparent image of the given size which uses the
// default gamma tables.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
		gamma:  DefaultGamma(),
	}
}

// SetGamma selects the gamma tables used for blending.
// A nil argument selects the default tables.
func (img *Image) SetGamma(g *Gamma) {
	if g == nil {
		g = DefaultGamma()
	}
	img.gamma = g
}

// Gamma returns the gamma tables used for blending.
func (img *Image) Gamma() *Gamma { return img.gamma }

// Bounds returns the pixel rectangle of img.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

func (img *Image) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.Width && y < img.Height
}

// SetPixel overwrites a pixel. Coordinates outside the image are ignored.
func (img *Image) SetPixel(x, y int, c Color) {
	if !img.inside(x, y) {
		return
	}
	i := 4 * (y*img.Width + x)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

// Pixel returns the color of a pixel. Coordinates outside the image give
// [Transparent].
func (img *Image) Pixel(x, y int) Color {
	if !img.inside(x, y) {
		return Transparent
	}
	i := 4 * (y*img.Width + x)
	return Color{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// Clear sets every pixel to c.
func (img *Image) Clear(c Color) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

// BlendPixel composites c over the pixel at (x, y), weighted by coverage
// in [0, 1].
func (img *Image) BlendPixel(x, y int, c Color, coverage float32) {
	if !img.inside(x, y) {
		return
	}
	img.blend(4*(y*img.Width+x), c, coverage)
}

// BlendSpan blends c into the pixels of row y starting at column xMin, one
// coverage value per pixel. The arguments match the emit callback of the
// [Rasterizer] fill and stroke methods.
func (img *Image) BlendSpan(y, xMin int, coverage []float32, c Color) {
	if y < 0 || y >= img.Height {
		return
	}
	row := 4 * y * img.Width
	for i, cov := range coverage {
		x := xMin + i
		if x < 0 || x >= img.Width {
			continue
		}
		img.blend(row+4*x, c, cov)
	}
}

func (img *Image) blend(i int, c Color, coverage float32) {
	if coverage <= 0 || c.A == 0 {
		return
	}
	alpha := float32(c.A) / 255 * min(coverage, 1)
	if alpha >= 1 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
		return
	}

	g := img.gamma
	dstA := float32(img.Pix[i+3]) / 255
	outA := alpha + dstA*(1-alpha)
	if outA <= 0 {
		return
	}
	wDst := dstA * (1 - alpha) / outA
	wSrc := alpha / outA

	src := [3]uint8{c.R, c.G, c.B}
	for k := range 3 {
		lin := g.ToLinear(src[k])*wSrc + g.ToLinear(img.Pix[i+k])*wDst
		img.Pix[i+k] = g.FromLinear(lin)
	}
	img.Pix[i+3] = uint8(outA*255 + 0.5)
}

// NRGBA returns an [image.NRGBA] which shares its pixels with img.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   img.Bounds(),
	}
}

// Composite draws src over img, scaled to fill the device rectangle dst.
// Parts of dst outside the image are clipped.
func (img *Image) Composite(src image.Image, dst image.Rectangle) {
	if dst.Empty() || !dst.Overlaps(img.Bounds()) {
		return
	}
	view := img.NRGBA()
	if dst.Size() == src.Bounds().Size() {
		draw.Draw(view, dst, src, src.Bounds().Min, draw.Over)
		return
	}
	draw.ApproxBiLinear.Scale(view, dst, src, src.Bounds(), draw.Over, nil)
}
