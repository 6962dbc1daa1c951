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

// Package wkb reads and writes geometries in the OGC well-known binary
// format. Only 2D geometries of types 1 to 6 are supported.
package wkb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
)

var (
	// ErrDecode is wrapped by every error returned from [Unmarshal].
	ErrDecode = errors.New("wkb: decode error")

	ErrTruncated       = errors.New("unexpected end of data")
	ErrUnsupportedType = errors.New("unsupported geometry type")
	ErrRingNotClosed   = errors.New("polygon ring is not closed")
	ErrByteOrder       = errors.New("invalid byte order marker")
)

// Byte order markers.
const (
	xdr byte = 0 // big endian
	ndr byte = 1 // little endian
)

const geometryCollection = 7

// maxCount limits element counts, so that corrupt headers do not cause
// huge allocations.
const maxCount = 1 << 24

type decodeError struct {
	pos int
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrDecode, e.pos, e.err)
}

func (e *decodeError) Unwrap() []error {
	return []error{ErrDecode, e.err}
}

type reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func (r *reader) fail(err error) error {
	return &decodeError{pos: r.pos, err: err}
}

func (r *reader) readByte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, r.fail(ErrTruncated)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, r.fail(ErrTruncated)
	}
	v := r.order.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) readFloat64() (float64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, r.fail(ErrTruncated)
	}
	v := math.Float64frombits(r.order.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *reader) readCount() (int, error) {
	n, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	if n > maxCount {
		return 0, r.fail(ErrTruncated)
	}
	return int(n), nil
}

// readHeader reads the byte order marker and the type code. The byte order
// applies to the rest of this (sub-)geometry.
func (r *reader) readHeader() (geometry.Type, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case xdr:
		r.order = binary.BigEndian
	case ndr:
		r.order = binary.LittleEndian
	default:
		r.pos--
		return 0, r.fail(ErrByteOrder)
	}
	start := r.pos
	code, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	if code < 1 || code > 6 {
		r.pos = start
		if code == geometryCollection {
			return 0, r.fail(fmt.Errorf("%w: GeometryCollection", ErrUnsupportedType))
		}
		return 0, r.fail(fmt.Errorf("%w: %d", ErrUnsupportedType, code))
	}
	return geometry.Type(code), nil
}

func (r *reader) readPoint() (vec.Vec2, error) {
	x, err := r.readFloat64()
	if err != nil {
		return vec.Vec2{}, err
	}
	y, err := r.readFloat64()
	if err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: x, Y: y}, nil
}

func (r *reader) readPoints() ([]vec.Vec2, error) {
	n, err := r.readCount()
	if err != nil {
		return nil, err
	}
	if r.pos+16*n > len(r.buf) {
		return nil, r.fail(ErrTruncated)
	}
	pts := make([]vec.Vec2, n)
	for i := range pts {
		pts[i], err = r.readPoint()
		if err != nil {
			return nil, err
		}
	}
	return pts, nil
}

func (r *reader) readRings() ([][]vec.Vec2, error) {
	n, err := r.readCount()
	if err != nil {
		return nil, err
	}
	var rings [][]vec.Vec2
	for range n {
		start := r.pos
		ring, err := r.readPoints()
		if err != nil {
			return nil, err
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			r.pos = start
			return nil, r.fail(ErrRingNotClosed)
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

// readSub reads a complete sub-geometry of the given type, including its
// own header.
func (r *reader) readSub(want geometry.Type) error {
	start := r.pos
	tp, err := r.readHeader()
	if err != nil {
		return err
	}
	if tp != want {
		r.pos = start
		return r.fail(fmt.Errorf("%w: %s inside multi-geometry, expected %s",
			ErrUnsupportedType, tp, want))
	}
	return nil
}

// Unmarshal decodes a single WKB geometry. Trailing data after the geometry
// is ignored.
func Unmarshal(data []byte) (*geometry.Geometry, error) {
	r := &reader{buf: data}
	return r.readGeometry()
}

func (r *reader) readGeometry() (*geometry.Geometry, error) {
	tp, err := r.readHeader()
	if err != nil {
		return nil, err
	}

	switch tp {
	case geometry.Point:
		p, err := r.readPoint()
		if err != nil {
			return nil, err
		}
		return geometry.NewPoint(p.X, p.Y), nil

	case geometry.LineString:
		pts, err := r.readPoints()
		if err != nil {
			return nil, err
		}
		return geometry.NewLineString(pts), nil

	case geometry.Polygon:
		rings, err := r.readRings()
		if err != nil {
			return nil, err
		}
		return geometry.NewPolygon(rings...), nil

	case geometry.MultiPoint:
		n, err := r.readCount()
		if err != nil {
			return nil, err
		}
		var pts []vec.Vec2
		for range n {
			if err := r.readSub(geometry.Point); err != nil {
				return nil, err
			}
			p, err := r.readPoint()
			if err != nil {
				return nil, err
			}
			pts = append(pts, p)
		}
		return geometry.NewMultiPoint(pts), nil

	case geometry.MultiLineString:
		n, err := r.readCount()
		if err != nil {
			return nil, err
		}
		var lines [][]vec.Vec2
		for range n {
			if err := r.readSub(geometry.LineString); err != nil {
				return nil, err
			}
			pts, err := r.readPoints()
			if err != nil {
				return nil, err
			}
			lines = append(lines, pts)
		}
		return geometry.NewMultiLineString(lines), nil

	default: // geometry.MultiPolygon
		n, err := r.readCount()
		if err != nil {
			return nil, err
		}
		var polys [][][]vec.Vec2
		for range n {
			if err := r.readSub(geometry.Polygon); err != nil {
				return nil, err
			}
			rings, err := r.readRings()
			if err != nil {
				return nil, err
			}
			polys = append(polys, rings)
		}
		return geometry.NewMultiPolygon(polys), nil
	}
}
