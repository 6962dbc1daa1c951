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


// Command export renders every test case to a PNG file and writes an index
// of the scenes to JSON, with the geometry encoded as hex WKB.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"flag"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/carto/testcases"
	"seehuhn.de/go/carto/wkb"
)

func main() {
	outDir := flag.String("out", "testdata", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			jtc := toJSON(category, tc)
			if err := writePNG(filepath.Join(*outDir, jtc.Name+".png"), tc); err != nil {
				panic(err)
			}
			out.TestCases = append(out.TestCases, jtc)
		}
	}

	f, err := os.Create(filepath.Join(*outDir, "testcases.json"))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

func writePNG(fname string, tc testcases.TestCase) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = png.Encode(f, tc.Render().NRGBA())
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

type jsonTestCase struct {
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Geometry   string    `json:"wkb"`
	Extent     []float64 `json:"extent,omitempty"`
	Op         string    `json:"op"`
	FillRule   string    `json:"fill_rule,omitempty"`
	LineWidth  float64   `json:"line_width,omitempty"`
	LineCap    string    `json:"line_cap,omitempty"`
	LineJoin   string    `json:"line_join,omitempty"`
	MiterLimit float64   `json:"miter_limit,omitempty"`
	Dash       []float64 `json:"dash,omitempty"`
	DashPhase  float64   `json:"dash_phase,omitempty"`
}

func toJSON(category string, tc testcases.TestCase) jsonTestCase {
	jtc := jsonTestCase{
		Name:     category + "_" + tc.Name,
		Width:    tc.Width,
		Height:   tc.Height,
		Geometry: hex.EncodeToString(wkb.Marshal(tc.Geometry, binary.LittleEndian)),
	}
	if e := tc.Extent; e.IsValid() {
		jtc.Extent = []float64{e.MinX, e.MinY, e.MaxX, e.MaxY}
	}

	switch op := tc.Op.(type) {
	case testcases.Fill:
		jtc.Op = "fill"
		jtc.FillRule = op.Rule.String()
	case testcases.Stroke:
		jtc.Op = "stroke"
		jtc.LineWidth = op.Width
		jtc.LineCap = op.Cap.String()
		jtc.LineJoin = op.Join.String()
		jtc.MiterLimit = op.MiterLimit
		jtc.Dash = op.Dash
		jtc.DashPhase = op.DashPhase
	}
	return jtc
}
