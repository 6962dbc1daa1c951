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


// Package pool implements a bounded pool of reusable resources, such as
// data source connections.
//
// Unlike [sync.Pool], a Pool never holds more than a fixed number of
// resources, and Borrow fails immediately instead of waiting when all of
// them are in use:
//
//	p, err := pool.New(open, 2, 8)
//	...
//	err = p.Do(func(conn *Conn) error {
//		return conn.Query(...)
//	})
package pool

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned by [Pool.Borrow] when every resource is in
// use and the pool has reached its maximum size.
var ErrExhausted = errors.New("pool: resource exhausted")

// Pool is a bounded set of resources of type T. It is safe for concurrent
// use.
type Pool[T any] struct {
	factory func() (T, error)
	max     int

	mu       sync.Mutex
	idle     []T
	inUse    int
	borrows  uint64
	failures uint64
}

// Stats describes the state of a pool.
type Stats struct {
	Size      int    // resources created and not discarded
	InUse     int    // resources currently borrowed
	Max       int    // upper limit for Size
	Borrows   uint64 // successful calls to Borrow
	Exhausted uint64 // calls to Borrow which returned ErrExhausted
}

// New creates a pool which holds at most maxSize resources. The first
// initial resources are created immediately.
func New[T any](factory func() (T, error), initial, maxSize int) (*Pool[T], error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("pool: invalid maximum size %d", maxSize)
	}
	initial = min(maxSize, initial)
	p := &Pool[T]{
		factory: factory,
		max:     maxSize,
		idle:    make([]T, 0, maxSize),
	}
	for range initial {
		v, err := factory()
		if err != nil {
			return nil, fmt.Errorf("pool: creating resource: %w", err)
		}
		p.idle = append(p.idle, v)
	}
	return p, nil
}

// Borrow takes an idle resource from the pool, creating a new one if
// the pool is below its maximum size. If all resources are in use, Borrow
// returns a nil lease and [ErrExhausted]. Borrow never blocks.
//
// Every lease must be released, normally with a deferred call to
// [Lease.Release].
func (p *Pool[T]) Borrow() (*Lease[T], error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		v := p.idle[n-1]
		var zero T
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
		p.inUse++
		p.borrows++
		p.mu.Unlock()
		return &Lease[T]{pool: p, value: v}, nil
	}
	if p.inUse >= p.max {
		p.failures++
		p.mu.Unlock()
		return nil, ErrExhausted
	}
	// the slot stays reserved while the factory runs
	p.inUse++
	p.mu.Unlock()

	v, err := p.factory()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.inUse--
		return nil, fmt.Errorf("pool: creating resource: %w", err)
	}
	p.borrows++
	return &Lease[T]{pool: p, value: v}, nil
}

// Do borrows a resource, calls fn with it and returns the resource to
// the pool, also when fn panics.
func (p *Pool[T]) Do(fn func(T) error) error {
	l, err := p.Borrow()
	if err != nil {
		return err
	}
	defer l.Release()
	return fn(l.Value())
}

// Stats returns a snapshot of the pool state.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Size:      len(p.idle) + p.inUse,
		InUse:     p.inUse,
		Max:       p.max,
		Borrows:   p.borrows,
		Exhausted: p.failures,
	}
}

func (p *Pool[T]) put(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse--
	p.idle = append(p.idle, v)
}

func (p *Pool[T]) discard() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse--
}

// Lease is a borrowed resource.
type Lease[T any] struct {
	pool  *Pool[T]
	value T
	once  sync.Once
}

// Value returns the borrowed resource. It must not be used after the
// lease has been released.
func (l *Lease[T]) Value() T {
	return l.value
}

// Release returns the resource to the pool. Calling Release more than
// once has no effect.
func (l *Lease[T]) Release() {
	l.once.Do(func() {
		v := l.value
		var zero T
		l.value = zero
		l.pool.put(v)
	})
}

// Discard releases the lease without returning the resource to the pool,
// for example after the resource was found to be broken. The pool may
// create a replacement on the next Borrow.
func (l *Lease[T]) Discard() {
	l.once.Do(func() {
		var zero T
		l.value = zero
		l.pool.discard()
	})
}
