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

package transform

import (
	"math"
	"math/rand/v2"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
)

func near(a, b vec.Vec2) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) <= eps*(1+math.Abs(b.X)) &&
		math.Abs(a.Y-b.Y) <= eps*(1+math.Abs(b.Y))
}

func TestRoundTrip(t *testing.T) {
	extents := []geometry.Envelope{
		geometry.NewEnvelope(0, 0, 100, 100),
		geometry.NewEnvelope(-180, -90, 180, 90),
		geometry.NewEnvelope(500000, 4e6, 510000, 4.02e6),
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for _, ext := range extents {
		tr := New(640, 480, ext)
		for range 100 {
			p := vec.Vec2{
				X: ext.MinX + rng.Float64()*ext.Width(),
				Y: ext.MinY + rng.Float64()*ext.Height(),
			}
			if q := tr.Backward(tr.Forward(p)); !near(q, p) {
				t.Errorf("%v: round trip of %v gave %v", ext, p, q)
			}
		}
	}
}

func TestForward(t *testing.T) {
	tr := New(200, 100, geometry.NewEnvelope(0, 0, 100, 100))
	if tr.Scale() != 1 {
		t.Fatalf("scale = %g, want 1", tr.Scale())
	}
	cases := []struct{ in, want vec.Vec2 }{
		{vec.Vec2{X: 50, Y: 50}, vec.Vec2{X: 100, Y: 50}},
		{vec.Vec2{X: 0, Y: 100}, vec.Vec2{X: 50, Y: 0}},
		{vec.Vec2{X: 100, Y: 0}, vec.Vec2{X: 150, Y: 100}},
	}
	for _, tc := range cases {
		if got := tr.Forward(tc.in); !near(got, tc.want) {
			t.Errorf("Forward(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	m := tr.Matrix()
	for _, tc := range cases {
		x := m[0]*tc.in.X + m[2]*tc.in.Y + m[4]
		y := m[1]*tc.in.X + m[3]*tc.in.Y + m[5]
		if got := (vec.Vec2{X: x, Y: y}); !near(got, tc.want) {
			t.Errorf("Matrix applied to %v = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEnvelopeAndGeometry(t *testing.T) {
	tr := New(100, 100, geometry.NewEnvelope(0, 0, 10, 10))
	got := tr.ForwardEnvelope(geometry.NewEnvelope(0, 0, 5, 5))
	want := geometry.NewEnvelope(0, 50, 50, 100)
	if got != want {
		t.Errorf("ForwardEnvelope = %v, want %v", got, want)
	}
	if back := tr.BackwardEnvelope(got); back != geometry.NewEnvelope(0, 0, 5, 5) {
		t.Errorf("BackwardEnvelope = %v", back)
	}

	g := geometry.NewLineString([]vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 10}})
	dev := tr.ForwardGeometry(g)
	if dev == g {
		t.Fatal("ForwardGeometry returned its argument")
	}
	if g.Envelope() != geometry.NewEnvelope(0, 0, 10, 10) {
		t.Error("ForwardGeometry modified its argument")
	}
	if dev.Envelope() != geometry.NewEnvelope(0, 0, 100, 100) {
		t.Errorf("device envelope = %v", dev.Envelope())
	}

	pts := []vec.Vec2{{X: 5, Y: 5}}
	tr.ForwardPoints(pts)
	if pts[0] != (vec.Vec2{X: 50, Y: 50}) {
		t.Errorf("ForwardPoints gave %v", pts[0])
	}
	tr.BackwardPoints(pts)
	if pts[0] != (vec.Vec2{X: 5, Y: 5}) {
		t.Errorf("BackwardPoints gave %v", pts[0])
	}
}
