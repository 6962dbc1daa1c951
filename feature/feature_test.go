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

package feature

import (
	"testing"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
)

func TestAttributeLookup(t *testing.T) {
	schema := NewSchema("name", "pop", "name")
	if schema.Len() != 2 {
		t.Fatalf("Len = %d, want 2", schema.Len())
	}

	f := New(7, geometry.NewPoint(1, 2), schema)
	f.Set("pop", value.Int(100))
	f.Set("name", value.String("Oslo"))

	if got := f.AttributeByName("pop"); !got.Equal(value.Int(100)) {
		t.Errorf("pop = %s", got.Quote())
	}
	if got := f.At(schema.Index("name")); got.String() != "Oslo" {
		t.Errorf("name = %s", got.Quote())
	}
	if got := f.AttributeByName("missing"); !got.IsNull() {
		t.Errorf("missing = %s, want null", got.Quote())
	}
}

func TestSetExtendsPrivateSchema(t *testing.T) {
	shared := NewSchema("a")
	f := New(1, nil, shared)
	f.Set("b", value.Int(2))

	if shared.Index("b") != -1 {
		t.Error("shared schema was modified")
	}
	if f.Schema() == shared {
		t.Error("feature still refers to the shared schema")
	}
	if got := f.AttributeByName("b"); !got.Equal(value.Int(2)) {
		t.Errorf("b = %s", got.Quote())
	}

	g := New(2, nil, nil)
	g.Set("x", value.Real(1.5))
	if got := g.Attributes()["x"]; !got.Equal(value.Real(1.5)) {
		t.Errorf("x = %s", got.Quote())
	}
}

func TestSliceSet(t *testing.T) {
	fs := NewSliceSet([]*Feature{New(1, nil, nil), New(2, nil, nil)})
	got := Collect(fs)
	if len(got) != 2 || got[0].ID() != 1 || got[1].ID() != 2 {
		t.Fatalf("Collect = %v", got)
	}
	if fs.Next() != nil {
		t.Error("featureset restarted after exhaustion")
	}
}
