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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment is a line segment of a stroked path, with its unit
// tangent T and the unit normal N, which is T turned counter-clockwise.
type strokeSegment struct {
	A, B vec.Vec2
	T, N vec.Vec2
}

func newSegment(a, b vec.Vec2, t vec.Vec2) strokeSegment {
	return strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}}
}

// Stroke draws the outline of p using the stroke parameters of r.
// The coordinates of p are device pixels. The outline of every subpath is
// built as a polygon and all polygons are filled together with the
// nonzero rule, so that overlaps are painted once.
func (r *Rasterizer) Stroke(p path.Path, emit func(y, xMin int, coverage []float32)) {
	r.splitPath(p)
	if len(r.runStart) == 0 && len(r.dots) == 0 {
		return
	}

	r.outline = r.outline[:0]
	r.outlineStart = r.outlineStart[:0]

	// Subpaths without length have no direction. Only round caps draw them.
	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.dots {
			start := len(r.outline)
			r.addArc(pt, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
			r.outlineStart = append(r.outlineStart, start)
		}
	}

	if len(r.Dash) > 0 {
		r.dashRuns()
		for i := range r.dashStarts {
			r.strokeDash(runAt(r.dashSegs, r.dashStarts, i))
		}
	} else {
		for i := range r.runStart {
			r.strokeRun(runAt(r.segs, r.runStart, i), r.runClosed[i])
		}
	}

	r.startEdges()
	for i, start := range r.outlineStart {
		end := len(r.outline)
		if i+1 < len(r.outlineStart) {
			end = r.outlineStart[i+1]
		}
		poly := r.outline[start:end]
		if len(poly) < 2 {
			continue
		}
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		r.addEdge(poly[len(poly)-1], poly[0])
	}
	r.sweep(nonZero, emit)
}

// runAt returns the i-th run of segments, where starts lists the index of
// the first segment of every run.
func runAt(segs []strokeSegment, starts []int, i int) []strokeSegment {
	end := len(segs)
	if i+1 < len(starts) {
		end = starts[i+1]
	}
	return segs[starts[i]:end]
}

// strokeRun adds the outline of one subpath, discarding degenerate
// outlines.
func (r *Rasterizer) strokeRun(segs []strokeSegment, closed bool) {
	start := len(r.outline)
	if closed {
		r.outlineClosed(segs)
	} else {
		r.outlineOpen(segs)
	}
	if len(r.outline)-start < 3 {
		r.outline = r.outline[:start]
		return
	}
	r.outlineStart = append(r.outlineStart, start)
}

// strokeDash adds the outline of one dash. A dash of length zero keeps the
// direction of the line it lies on and is drawn as a dot for round and
// square caps.
func (r *Rasterizer) strokeDash(segs []strokeSegment) {
	if len(segs) == 1 && segs[0].A == segs[0].B {
		s := segs[0]
		start := len(r.outline)
		switch r.Cap {
		case graphics.LineCapRound:
			r.addArc(s.A, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
		case graphics.LineCapSquare:
			r.addSquare(s.A, s.T, r.Width/2)
		default:
			return
		}
		r.outlineStart = append(r.outlineStart, start)
		return
	}
	r.strokeRun(segs, false)
}

// splitPath converts p into runs of segments, one run per subpath.
func (r *Rasterizer) splitPath(p path.Path) {
	r.segs = r.segs[:0]
	r.runStart = r.runStart[:0]
	r.runClosed = r.runClosed[:0]
	r.dots = r.dots[:0]

	var cur, first vec.Vec2
	runFirst := 0
	inRun := false
	drawn := false

	finish := func(closed bool) {
		if len(r.segs) == runFirst {
			r.dots = append(r.dots, first)
			return
		}
		r.runStart = append(r.runStart, runFirst)
		r.runClosed = append(r.runClosed, closed)
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if inRun && drawn {
				finish(false)
			}
			cur = pts[0]
			first = cur
			runFirst = len(r.segs)
			inRun, drawn = true, false
		case path.CmdLineTo, path.CmdQuadTo, path.CmdCubeTo:
			if !inRun {
				continue
			}
			to := pts[len(pts)-1]
			drawn = true
			r.addSegment(cur, to)
			cur = to
		case path.CmdClose:
			if !inRun {
				continue
			}
			if cur != first {
				r.addSegment(cur, first)
			}
			finish(true)
			cur = first
			inRun, drawn = false, false
		}
	}
	if inRun && drawn {
		finish(false)
	}
}

func (r *Rasterizer) addSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	l := d.Length()
	if l < zeroLengthThreshold {
		return
	}
	r.segs = append(r.segs, newSegment(a, b, d.Mul(1/l)))
}

// turn returns the sine of the angle from direction t1 to t2.
func turn(t1, t2 vec.Vec2) float64 {
	return t1.X*t2.Y - t1.Y*t2.X
}

// outlineOpen adds the outline of an open run: the +N side forwards with
// the end cap, then the -N side backwards with the start cap.
func (r *Rasterizer) outlineOpen(segs []strokeSegment) {
	d := r.Width / 2
	first, last := &segs[0], &segs[len(segs)-1]

	r.addCap(first.A, first.T.Mul(-1), d)

	skip := false
	for i := range segs {
		s := &segs[i]
		if !skip {
			r.outline = append(r.outline, s.A.Add(s.N.Mul(d)))
		}
		skip = false
		if i == len(segs)-1 {
			r.outline = append(r.outline, s.B.Add(s.N.Mul(d)))
			break
		}
		nx := &segs[i+1]
		switch st := turn(s.T, nx.T); {
		case math.Abs(st) < collinearityThreshold:
			r.outline = append(r.outline, s.B.Add(s.N.Mul(d)))
		case st > 0:
			skip = r.addInner(s.B, s.T, nx.T, s.N, nx.N, d, true)
		default:
			r.outline = append(r.outline, s.B.Add(s.N.Mul(d)))
			r.addJoin(s.B, s.T, nx.T, d, true)
		}
	}

	r.addCap(last.B, last.T, d)

	skip = false
	for i := len(segs) - 1; i >= 0; i-- {
		s := &segs[i]
		if !skip {
			r.outline = append(r.outline, s.B.Sub(s.N.Mul(d)))
		}
		skip = false
		if i == 0 {
			r.outline = append(r.outline, s.A.Sub(s.N.Mul(d)))
			break
		}
		pv := &segs[i-1]
		switch st := turn(pv.T, s.T); {
		case math.Abs(st) < collinearityThreshold:
			r.outline = append(r.outline, s.A.Sub(s.N.Mul(d)))
		case st > 0:
			r.outline = append(r.outline, s.A.Sub(s.N.Mul(d)))
			r.addJoin(s.A, pv.T, s.T, d, false)
		default:
			skip = r.addInner(s.A, pv.T, s.T, pv.N, s.N, d, false)
		}
	}
}

// outlineClosed adds the outline of a closed run as one polygon. The
// corner where the run closes is handled on both sides.
func (r *Rasterizer) outlineClosed(segs []strokeSegment) {
	d := r.Width / 2
	first, last := &segs[0], &segs[len(segs)-1]
	closeTurn := turn(last.T, first.T)

	// corner adds the +N side of the corner between a and b at point p.
	corner := func(a, b *strokeSegment, p vec.Vec2, st float64) {
		switch {
		case math.Abs(st) < collinearityThreshold:
			r.outline = append(r.outline, a.B.Add(a.N.Mul(d)), b.A.Add(b.N.Mul(d)))
		case st > 0:
			r.addInner(p, a.T, b.T, a.N, b.N, d, true)
		default:
			r.outline = append(r.outline, a.B.Add(a.N.Mul(d)))
			r.addJoin(p, a.T, b.T, d, true)
			r.outline = append(r.outline, b.A.Add(b.N.Mul(d)))
		}
	}
	// backCorner adds the -N side of the corner between a and b.
	backCorner := func(a, b *strokeSegment, p vec.Vec2, st float64) {
		switch {
		case math.Abs(st) < collinearityThreshold:
			r.outline = append(r.outline, b.A.Sub(b.N.Mul(d)), a.B.Sub(a.N.Mul(d)))
		case st > 0:
			r.outline = append(r.outline, b.A.Sub(b.N.Mul(d)))
			r.addJoin(p, a.T, b.T, d, false)
			r.outline = append(r.outline, a.B.Sub(a.N.Mul(d)))
		default:
			r.addInner(p, a.T, b.T, a.N, b.N, d, false)
		}
	}

	r.outline = append(r.outline, first.A.Add(first.N.Mul(d)))
	for i := 0; i < len(segs)-1; i++ {
		corner(&segs[i], &segs[i+1], segs[i].B, turn(segs[i].T, segs[i+1].T))
	}
	corner(last, first, last.B, closeTurn)

	backCorner(last, first, first.A, closeTurn)
	for i := len(segs) - 1; i > 0; i-- {
		backCorner(&segs[i-1], &segs[i], segs[i].A, turn(segs[i-1].T, segs[i].T))
	}
	r.outline = append(r.outline, first.A.Sub(first.N.Mul(d)))
}

// addCap adds the cap at the end point p of a line leaving in direction t.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	n := vec.Vec2{X: -t.Y, Y: t.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := p.Add(t.Mul(d))
		r.outline = append(r.outline, ext.Add(n.Mul(d)), ext.Sub(n.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(p, d, n, -math.Pi, true)
	}
}

// innerPoint returns the point where the offset lines on the inner side of
// a corner at p meet.
func innerPoint(p, t1, t2 vec.Vec2, d float64, plusSide bool) (vec.Vec2, bool) {
	cos := t1.Dot(t2)
	if cos > 1-1e-9 {
		return vec.Vec2{}, false
	}
	half := math.Sqrt((1 + cos) / 2) // cos of half the turning angle
	if half < 1e-9 {
		return vec.Vec2{}, false
	}
	dir := vec.Vec2{X: -t1.Y - t2.Y, Y: t1.X + t2.X}
	if !plusSide {
		dir = dir.Mul(-1)
	}
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return p.Add(dir.Mul(d / (half * l))), true
}

// addInner adds the inner side of a corner. It reports whether the single
// intersection point was used, in which case the offset point of the next
// segment must be skipped.
func (r *Rasterizer) addInner(p, t1, t2, n1, n2 vec.Vec2, d float64, plusSide bool) bool {
	if q, ok := innerPoint(p, t1, t2, d, plusSide); ok {
		r.outline = append(r.outline, q)
		return true
	}
	if plusSide {
		r.outline = append(r.outline, p.Add(n1.Mul(d)), p.Add(n2.Mul(d)))
	} else {
		r.outline = append(r.outline, p.Sub(n1.Mul(d)), p.Sub(n2.Mul(d)))
	}
	return false
}

// addJoin adds the outer side of the corner at p, where the direction
// changes from t1 to t2.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64, plusSide bool) {
	cos := t1.Dot(t2)
	sin := turn(t1, t2)
	if math.Abs(sin) < collinearityThreshold {
		return
	}
	if cos < cuspCosineThreshold {
		r.addCap(p, t1, d)
		r.addCap(p, t2.Mul(-1), d)
		return
	}

	switch r.Join {
	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		if plusSide {
			start := vec.Vec2{X: -t1.Y, Y: t1.X}
			if sin < 0 {
				angle = -angle
			}
			r.addArc(p, d, start, angle, false)
		} else {
			start := vec.Vec2{X: t2.Y, Y: -t2.X}
			if sin > 0 {
				angle = -angle
			}
			r.addArc(p, d, start, angle, false)
		}

	case graphics.LineJoinMiter:
		// 1/half is the ratio of miter length to line width
		half := math.Sqrt((1 + cos) / 2)
		if half <= 0 || 1/half > r.MiterLimit+1e-10 {
			return // bevel
		}
		dir := vec.Vec2{X: -t1.Y - t2.Y, Y: t1.X + t2.X}
		if !plusSide {
			dir = dir.Mul(-1)
		}
		if l := dir.Length(); l > zeroLengthThreshold {
			r.outline = append(r.outline, p.Add(dir.Mul(d/(half*l))))
		}
	}
	// bevel joins need no extra points
}

// addArc adds points on the circle of the given radius around c, starting
// in direction from and turning counter-clockwise by sweep radians
// (clockwise for negative sweep).
func (r *Rasterizer) addArc(c vec.Vec2, radius float64, from vec.Vec2, sweep float64, withStart bool) {
	rotate := func(v vec.Vec2, a float64) vec.Vec2 {
		s, co := math.Sincos(a)
		return vec.Vec2{X: v.X*co - v.Y*s, Y: v.X*s + v.Y*co}
	}

	n := 1
	if radius >= r.Flatness {
		// a chord spanning angle θ deviates from the arc by radius·(1-cos(θ/2))
		step := 2 * math.Acos(1-r.Flatness/radius)
		if !(step > 0) {
			step = math.Pi / 4
		}
		n = max(1, int(math.Ceil(math.Abs(sweep)/step)))
	}

	i0 := 1
	if withStart {
		i0 = 0
	}
	for i := i0; i <= n; i++ {
		dir := rotate(from, sweep*float64(i)/float64(n))
		r.outline = append(r.outline, c.Add(dir.Mul(radius)))
	}
}

// addSquare adds a square of side 2d around c, aligned with direction t.
func (r *Rasterizer) addSquare(c, t vec.Vec2, d float64) {
	n := vec.Vec2{X: -t.Y, Y: t.X}
	td, nd := t.Mul(d), n.Mul(d)
	r.outline = append(r.outline,
		c.Add(td).Add(nd),
		c.Add(td).Sub(nd),
		c.Sub(td).Sub(nd),
		c.Sub(td).Add(nd),
	)
}

// dashRuns splits the runs of r.segs according to the dash pattern. Every
// dash becomes a run in r.dashSegs.
func (r *Rasterizer) dashRuns() {
	r.dashSegs = r.dashSegs[:0]
	r.dashStarts = r.dashStarts[:0]

	pattern := r.Dash
	total := 0.0
	for _, l := range pattern {
		total += l
	}
	if len(pattern)%2 == 1 {
		total *= 2
	}
	if total <= 0 {
		return
	}
	phase := math.Mod(r.DashPhase, total)
	if phase < 0 {
		phase += total
	}
	length := func(i int) float64 { return pattern[i%len(pattern)] }

	for run := range r.runStart {
		segs := runAt(r.segs, r.runStart, run)
		closed := r.runClosed[run]

		idx := 0
		pos := phase
		for pos >= length(idx) && length(idx) > 0 {
			pos -= length(idx)
			idx++
		}
		left := length(idx) - pos
		on := idx%2 == 0

		if on && left == 0 {
			s := segs[0]
			r.dashStarts = append(r.dashStarts, len(r.dashSegs))
			r.dashSegs = append(r.dashSegs, strokeSegment{A: s.A, B: s.A, T: s.T, N: s.N})
			idx++
			left = length(idx)
			on = idx%2 == 0
		}

		startsOn := on
		firstLo, firstHi := -1, -1
		cur := len(r.dashSegs)
		i, done := 0, 0.0
		for i < len(segs) {
			s := segs[i]
			segLen := s.B.Sub(s.A).Length()
			rest := segLen - done

			if left >= rest {
				if on {
					piece := s
					if done > 0 {
						piece.A = s.A.Add(s.B.Sub(s.A).Mul(done / segLen))
					}
					r.dashSegs = append(r.dashSegs, piece)
				}
				left -= rest
				i++
				done = 0
				continue
			}

			stop := done + left
			end := s.A.Add(s.B.Sub(s.A).Mul(stop / segLen))
			if on {
				begin := s.A.Add(s.B.Sub(s.A).Mul(done / segLen))
				if dl := end.Sub(begin).Length(); dl > zeroLengthThreshold {
					r.dashSegs = append(r.dashSegs, newSegment(begin, end, end.Sub(begin).Mul(1/dl)))
				} else if len(r.dashSegs) == cur {
					r.dashSegs = append(r.dashSegs, strokeSegment{A: begin, B: begin, T: s.T, N: s.N})
				}
				if len(r.dashSegs) > cur {
					if firstLo < 0 {
						firstLo, firstHi = cur, len(r.dashSegs)
					}
					r.dashStarts = append(r.dashStarts, cur)
					cur = len(r.dashSegs)
				}
			}
			done = stop
			idx++
			left = length(idx)
			on = idx%2 == 0
		}

		if len(r.dashSegs) > cur {
			// On closed paths a dash running through the start point joins
			// the first dash.
			if closed && startsOn && on && firstLo >= 0 {
				r.dashSegs = append(r.dashSegs, r.dashSegs[firstLo:firstHi]...)
				if r.dashStarts[0] == firstLo {
					r.dashStarts = r.dashStarts[1:]
				}
			}
			r.dashStarts = append(r.dashStarts, cur)
		}
	}
}
