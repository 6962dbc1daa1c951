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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Path is a reusable buffer of path segments. Use [Path.All] to pass it to
// the [Rasterizer].
type Path struct {
	Cmds   []path.Command
	Coords []vec.Vec2
}

// Reset empties p, keeping the allocated storage.
func (p *Path) Reset() {
	p.Cmds = p.Cmds[:0]
	p.Coords = p.Coords[:0]
}

// MoveTo starts a new subpath at pt.
func (p *Path) MoveTo(pt vec.Vec2) {
	p.Cmds = append(p.Cmds, path.CmdMoveTo)
	p.Coords = append(p.Coords, pt)
}

// LineTo adds a straight segment to pt.
func (p *Path) LineTo(pt vec.Vec2) {
	p.Cmds = append(p.Cmds, path.CmdLineTo)
	p.Coords = append(p.Coords, pt)
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Cmds = append(p.Cmds, path.CmdClose)
}

// All iterates over the segments of p.
func (p *Path) All() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		k := 0
		for _, cmd := range p.Cmds {
			n := numPoints(cmd)
			if !yield(cmd, p.Coords[k:k+n]) {
				return
			}
			k += n
		}
	}
}

func numPoints(cmd path.Command) int {
	switch cmd {
	case path.CmdMoveTo, path.CmdLineTo:
		return 1
	case path.CmdQuadTo:
		return 2
	case path.CmdCubeTo:
		return 3
	default:
		return 0
	}
}
