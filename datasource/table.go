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
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"seehuhn.de/go/carto/feature"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/value"
	"seehuhn.de/go/carto/wkb"
)

// DefaultCacheSize is the number of decoded geometries a [Table] keeps
// when no other size is given.
const DefaultCacheSize = 4096

// Table is a data source whose geometries are stored as WKB. Geometries
// are decoded on demand and kept in an LRU cache keyed by the hash of
// their encoding.
//
// A row whose geometry cannot be decoded is logged and skipped when it is
// queried; it does not make the query fail.
type Table struct {
	typ    GeometryType
	schema *feature.Schema
	log    zerolog.Logger
	cache  *lru.Cache[uint64, *geometry.Geometry]

	mu     sync.RWMutex
	rows   []tableRow
	extent geometry.Envelope
	hasExt bool
}

type tableRow struct {
	id   int64
	wkb  []byte
	key  uint64
	vals []value.Value
}

// NewTable returns an empty table with the given attribute schema.
// A cacheSize of zero selects [DefaultCacheSize].
func NewTable(typ GeometryType, schema *feature.Schema, cacheSize int, log zerolog.Logger) (*Table, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[uint64, *geometry.Geometry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Table{
		typ:    typ,
		schema: schema,
		log:    log,
		cache:  cache,
	}, nil
}

// Insert appends a row. The attribute values are given in schema order;
// missing trailing values are Null. The data is not checked until the row
// is read.
func (t *Table) Insert(id int64, data []byte, vals ...value.Value) {
	row := tableRow{
		id:   id,
		wkb:  data,
		key:  xxhash.Sum64(data),
		vals: make([]value.Value, t.schema.Len()),
	}
	copy(row.vals, vals)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
	if g, err := t.decode(&row); err == nil && !g.IsEmpty() {
		if t.hasExt {
			t.extent.ExpandToIncludeEnvelope(g.Envelope())
		} else {
			t.extent, t.hasExt = g.Envelope(), true
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table) decode(row *tableRow) (*geometry.Geometry, error) {
	if g, ok := t.cache.Get(row.key); ok {
		return g, nil
	}
	g, err := wkb.Unmarshal(row.wkb)
	if err != nil {
		return nil, err
	}
	t.cache.Add(row.key, g)
	return g, nil
}

// Type implements the [Datasource] interface.
func (t *Table) Type() GeometryType { return t.typ }

// Envelope implements the [Datasource] interface. Rows with invalid
// geometry do not contribute.
func (t *Table) Envelope() geometry.Envelope {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.extent
}

// Features implements the [Datasource] interface. The returned set
// decodes geometries as it is iterated.
func (t *Table) Features(ctx context.Context, q Query) (feature.Featureset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	rows := t.rows[:len(t.rows):len(t.rows)]
	t.mu.RUnlock()

	return &tableSet{
		ctx:  ctx,
		t:    t,
		q:    q,
		rows: rows,
		proj: newProjection(t.schema, q.Properties),
	}, nil
}

type tableSet struct {
	ctx  context.Context
	t    *Table
	q    Query
	rows []tableRow
	pos  int
	proj *projection
}

func (s *tableSet) Next() *feature.Feature {
	for s.pos < len(s.rows) {
		if s.ctx.Err() != nil {
			return nil
		}
		row := &s.rows[s.pos]
		s.pos++

		g, err := s.t.decode(row)
		if err != nil {
			s.t.log.Warn().Err(err).Int64("feature", row.id).Msg("skipping feature with invalid geometry")
			continue
		}
		if !s.q.matches(g.Envelope()) {
			continue
		}

		f := feature.New(row.id, g, s.proj.schema)
		for i, j := range s.proj.src {
			if j >= 0 {
				f.SetAt(i, row.vals[j])
			}
		}
		return f
	}
	return nil
}

// LoadCSV reads a table from CSV data. The first record is a header whose
// first two columns are "id" and "wkb"; the remaining columns name the
// attributes. The wkb column holds hex encoded WKB. Attribute fields are
// stored as integers or reals where they parse as such, empty fields as
// Null and everything else as strings.
func LoadCSV(r io.Reader, typ GeometryType, cacheSize int, log zerolog.Logger) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("datasource: reading CSV header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(header[0], "id") || !strings.EqualFold(header[1], "wkb") {
		return nil, errors.New("datasource: CSV header must start with id,wkb")
	}
	t, err := NewTable(typ, feature.NewSchema(header[2:]...), cacheSize, log)
	if err != nil {
		return nil, err
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("datasource: reading CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("datasource: line %d: invalid id %q", line, rec[0])
		}
		data, err := hex.DecodeString(rec[1])
		if err != nil {
			return nil, fmt.Errorf("datasource: line %d: %w", line, err)
		}
		vals := make([]value.Value, len(rec)-2)
		for i, field := range rec[2:] {
			vals[i] = parseField(field)
		}
		t.Insert(id, data, vals...)
	}
	return t, nil
}

func parseField(s string) value.Value {
	if s == "" {
		return value.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Real(f)
	}
	return value.String(s)
}
