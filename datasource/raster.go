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


package datasource

import (
	"context"
	"image"
	"math"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/imageio"
)

// RasterSource is a data source which serves a single georeferenced image.
// The image covers extent, with row 0 at the top (MaxY) edge.
type RasterSource struct {
	img    imageio.Reader
	extent geometry.Envelope
	schema *feature.Schema
}

// NewRasterSource returns a data source for img, placed at extent.
func NewRasterSource(img imageio.Reader, extent geometry.Envelope) *RasterSource {
	return &RasterSource{
		img:    img,
		extent: extent,
		schema: feature.NewSchema(),
	}
}

// Type implements the [Datasource] interface.
func (r *RasterSource) Type() GeometryType { return Raster }

// Envelope implements the [Datasource] interface.
func (r *RasterSource) Envelope() geometry.Envelope { return r.extent }

// Features implements the [Datasource] interface.
// The result holds at most one feature: the part of the image inside the
// query envelope, snapped outwards to whole pixels.
func (r *RasterSource) Features(ctx context.Context, q Query) (feature.Featureset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := r.img.Width(), r.img.Height()
	if w <= 0 || h <= 0 || !r.extent.IsValid() {
		return feature.NewSliceSet(nil), nil
	}

	win := image.Rect(0, 0, w, h)
	if q.Envelope != (geometry.Envelope{}) {
		if !q.Envelope.Intersects(r.extent) {
			return feature.NewSliceSet(nil), nil
		}
		e := q.Envelope.Intersect(r.extent)
		sx := float64(w) / r.extent.Width()
		sy := float64(h) / r.extent.Height()
		win = image.Rect(
			int(math.Floor((e.MinX-r.extent.MinX)*sx)),
			int(math.Floor((r.extent.MaxY-e.MaxY)*sy)),
			int(math.Ceil((e.MaxX-r.extent.MinX)*sx)),
			int(math.Ceil((r.extent.MaxY-e.MinY)*sy)),
		).Intersect(image.Rect(0, 0, w, h))
		if win.Empty() {
			return feature.NewSliceSet(nil), nil
		}
	}

	tile := image.NewRGBA(image.Rect(0, 0, win.Dx(), win.Dy()))
	if err := r.img.Read(win.Min.X, win.Min.Y, tile); err != nil {
		return nil, err
	}
	px := r.extent.Width() / float64(w)
	py := r.extent.Height() / float64(h)
	extent := geometry.Envelope{
		MinX: r.extent.MinX + float64(win.Min.X)*px,
		MaxX: r.extent.MinX + float64(win.Max.X)*px,
		MinY: r.extent.MaxY - float64(win.Max.Y)*py,
		MaxY: r.extent.MaxY - float64(win.Min.Y)*py,
	}
	f := feature.NewRaster(0, &feature.Raster{Extent: extent, Image: tile}, r.schema)
	return feature.NewSliceSet([]*feature.Feature{f}), nil
}
