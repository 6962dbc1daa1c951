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


package raster_test

import (
	"maps"
	"slices"
	"testing"

	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/testcases"
)

func BenchmarkTestCases(b *testing.B) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		b.Run(category, func(b *testing.B) {
			cases := testcases.All[category]
			canvases := make([]*raster.Canvas, len(cases))
			for i, tc := range cases {
				canvases[i] = raster.NewCanvas(raster.NewImage(tc.Width, tc.Height))
			}
			b.ResetTimer()
			for range b.N {
				for i, tc := range cases {
					tc.Draw(canvases[i], raster.Black)
				}
			}
		})
	}
}
