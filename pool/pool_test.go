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


package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type conn struct {
	id int
}

func counter() (func() (*conn, error), *atomic.Int64) {
	var n atomic.Int64
	return func() (*conn, error) {
		return &conn{id: int(n.Add(1))}, nil
	}, &n
}

func TestExhausted(t *testing.T) {
	factory, created := counter()
	p, err := New(factory, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if created.Load() != 1 {
		t.Errorf("%d resources created up front, want 1", created.Load())
	}

	var leases []*Lease[*conn]
	for i := range 3 {
		l, err := p.Borrow()
		if err != nil {
			t.Fatalf("borrow %d: %v", i, err)
		}
		leases = append(leases, l)
	}

	l, err := p.Borrow()
	if l != nil || !errors.Is(err, ErrExhausted) {
		t.Fatalf("borrow beyond max: %v, %v", l, err)
	}

	// a returned resource is immediately available again
	c := leases[1].Value()
	leases[1].Release()
	l, err = p.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	if l.Value() != c {
		t.Error("released resource was not reused")
	}
	if created.Load() != 3 {
		t.Errorf("%d resources created, want 3", created.Load())
	}

	st := p.Stats()
	if st.Size != 3 || st.InUse != 3 || st.Max != 3 || st.Borrows != 4 || st.Exhausted != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	factory, _ := counter()
	p, _ := New(factory, 0, 1)

	l, err := p.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	l.Release()
	l.Release()

	if st := p.Stats(); st.InUse != 0 || st.Size != 1 {
		t.Errorf("after double release: %+v", st)
	}
	a, _ := p.Borrow()
	b, err := p.Borrow()
	if a == nil || b != nil || !errors.Is(err, ErrExhausted) {
		t.Error("double release made the resource available twice")
	}
}

func TestDoReleasesOnPanic(t *testing.T) {
	factory, _ := counter()
	p, _ := New(factory, 0, 1)

	func() {
		defer func() { _ = recover() }()
		_ = p.Do(func(*conn) error { panic("boom") })
	}()

	if st := p.Stats(); st.InUse != 0 {
		t.Errorf("resource leaked after panic: %+v", st)
	}
	want := errors.New("query failed")
	if err := p.Do(func(*conn) error { return want }); err != want {
		t.Errorf("Do returned %v", err)
	}
}

func TestFactoryError(t *testing.T) {
	fail := errors.New("connection refused")
	calls := 0
	factory := func() (*conn, error) {
		calls++
		if calls > 1 {
			return nil, fail
		}
		return &conn{}, nil
	}
	p, err := New(factory, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	l1, _ := p.Borrow()
	if _, err := p.Borrow(); !errors.Is(err, fail) {
		t.Errorf("got %v, want %v", err, fail)
	}
	if st := p.Stats(); st.InUse != 1 || st.Size != 1 {
		t.Errorf("failed creation changed the pool: %+v", st)
	}
	l1.Release()

	if _, err := New(factory, 1, 2); !errors.Is(err, fail) {
		t.Errorf("New: got %v", err)
	}
	if _, err := New(factory, 0, 0); err == nil {
		t.Error("New accepted max 0")
	}
}

func TestDiscard(t *testing.T) {
	factory, created := counter()
	p, _ := New(factory, 1, 1)
	l, _ := p.Borrow()
	l.Discard()
	l.Release()

	if st := p.Stats(); st.Size != 0 || st.InUse != 0 {
		t.Errorf("after discard: %+v", st)
	}
	l, err := p.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	if l.Value().id != 2 || created.Load() != 2 {
		t.Error("discarded resource was not replaced")
	}
}

func TestNeverDoubleIssued(t *testing.T) {
	factory, _ := counter()
	const maxSize = 4
	p, _ := New(factory, 0, maxSize)

	var mu sync.Mutex
	out := make(map[*conn]bool)
	var wg sync.WaitGroup
	var exhausted atomic.Int64
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				l, err := p.Borrow()
				if errors.Is(err, ErrExhausted) {
					exhausted.Add(1)
					continue
				}
				c := l.Value()
				mu.Lock()
				if out[c] {
					t.Errorf("resource %d issued twice", c.id)
				}
				out[c] = true
				if len(out) > maxSize {
					t.Errorf("%d resources in use", len(out))
				}
				mu.Unlock()

				mu.Lock()
				delete(out, c)
				mu.Unlock()
				l.Release()
			}
		}()
	}
	wg.Wait()

	st := p.Stats()
	if st.InUse != 0 || st.Size > maxSize {
		t.Errorf("final stats %+v", st)
	}
	if st.Exhausted != uint64(exhausted.Load()) {
		t.Errorf("Exhausted = %d, counted %d", st.Exhausted, exhausted.Load())
	}
}
