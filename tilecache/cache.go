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


// Package tilecache stores encoded map images.
//
// The cache has two tiers: a size-limited LRU cache inside the process
// and an optional Redis server shared between processes. Images found
// only in Redis are copied into the local tier.
package tilecache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"seehuhn.de/go/carto/geometry"
)

// ErrRenderPanic is returned by [Cache.GetOrRender] when the render
// function panics.
var ErrRenderPanic = errors.New("tilecache: render panicked")

// Key identifies one rendered image.
type Key uint64

// NewKey returns the key for an image of the given map, viewport, size
// and format.
func NewKey(mapName string, bbox geometry.Envelope, width, height int, format string) Key {
	var b []byte
	b = append(b, mapName...)
	b = append(b, 0)
	for _, x := range []float64{bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY} {
		b = strconv.AppendUint(b, math.Float64bits(x), 16)
		b = append(b, ',')
	}
	b = strconv.AppendInt(b, int64(width), 10)
	b = append(b, 'x')
	b = strconv.AppendInt(b, int64(height), 10)
	b = append(b, 0)
	b = append(b, format...)
	return Key(xxhash.Sum64(b))
}

// String returns k as a hexadecimal string.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// Recorder receives the outcome of every lookup.
type Recorder interface {
	ObserveTileCache(tier string, hit bool)
}

// Config holds the settings for [New].
type Config struct {
	// Size is the number of images kept in process memory.
	Size int

	// TTL is the expiry time of images stored in Redis.
	TTL time.Duration

	// Redis is the shared tier. It may be nil.
	Redis *Redis

	// RenderTimeout bounds each render started by [Cache.GetOrRender].
	// Zero means no limit.
	RenderTimeout time.Duration

	Logger  zerolog.Logger
	Metrics Recorder
}

// Cache is a two-tier image cache. It is safe for concurrent use.
type Cache struct {
	front   *lru.Cache[Key, []byte]
	redis   *Redis
	ttl     time.Duration
	timeout time.Duration
	log     zerolog.Logger
	metrics Recorder

	mu       sync.Mutex
	inflight map[Key]*call
}

type call struct {
	done chan struct{}
	val  []byte
	err  error
}

// New creates a cache. A Size of zero or less selects 256 entries.
func New(cfg Config) (*Cache, error) {
	size := cfg.Size
	if size <= 0 {
		size = 256
	}
	front, err := lru.New[Key, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		front:    front,
		redis:    cfg.Redis,
		ttl:      cfg.TTL,
		timeout:  cfg.RenderTimeout,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
		inflight: make(map[Key]*call),
	}, nil
}

func (c *Cache) observe(tier string, hit bool) {
	if c.metrics != nil {
		c.metrics.ObserveTileCache(tier, hit)
	}
}

// Get looks up an image. Redis errors are logged and count as misses.
// The returned slice must not be modified.
func (c *Cache) Get(ctx context.Context, k Key) ([]byte, bool) {
	if val, ok := c.front.Get(k); ok {
		c.observe("memory", true)
		return val, true
	}
	c.observe("memory", false)
	if c.redis == nil {
		return nil, false
	}

	val, ok, err := c.redis.Get(ctx, k)
	if err != nil {
		c.log.Warn().Err(err).Str("key", k.String()).Msg("tile cache lookup failed")
		c.observe("redis", false)
		return nil, false
	}
	c.observe("redis", ok)
	if ok {
		c.front.Add(k, val)
	}
	return val, ok
}

// Set stores an image in both tiers. A Redis failure is returned, the
// local tier is updated regardless.
func (c *Cache) Set(ctx context.Context, k Key, val []byte) error {
	c.front.Add(k, val)
	if c.redis == nil {
		return nil
	}
	return c.redis.Set(ctx, k, val, c.ttl)
}

// GetOrRender returns the cached image for k, calling render to produce
// it on a miss. Concurrent calls for the same key share one render. The
// boolean reports whether the image came from the cache.
//
// The render keeps the values of ctx but not its cancellation, so that a
// caller going away does not fail the other callers waiting for the same
// image. A caller whose ctx ends stops waiting and gets ctx.Err().
func (c *Cache) GetOrRender(ctx context.Context, k Key, render func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if val, ok := c.Get(ctx, k); ok {
		return val, true, nil
	}

	c.mu.Lock()
	cl, ok := c.inflight[k]
	if !ok {
		cl = &call{done: make(chan struct{})}
		c.inflight[k] = cl
		go c.run(context.WithoutCancel(ctx), k, cl, render)
	}
	c.mu.Unlock()

	select {
	case <-cl.done:
		return cl.val, false, cl.err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// run performs the shared render for k and stores the result.
func (c *Cache) run(ctx context.Context, k Key, cl *call, render func(context.Context) ([]byte, error)) {
	defer func() {
		if p := recover(); p != nil {
			cl.val, cl.err = nil, fmt.Errorf("%w: %v", ErrRenderPanic, p)
			c.log.Error().Err(cl.err).Str("key", k.String()).Msg("tile render failed")
		}
		c.mu.Lock()
		delete(c.inflight, k)
		c.mu.Unlock()
		close(cl.done)
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cl.val, cl.err = render(ctx)
	if cl.err == nil {
		if err := c.Set(ctx, k, cl.val); err != nil {
			c.log.Warn().Err(err).Str("key", k.String()).Msg("tile cache store failed")
		}
	}
}

// Remove deletes an image from both tiers.
func (c *Cache) Remove(ctx context.Context, k Key) error {
	c.front.Remove(k)
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, k)
}

// Len returns the number of images in the local tier.
func (c *Cache) Len() int {
	return c.front.Len()
}

// Purge empties the local tier.
func (c *Cache) Purge() {
	c.front.Purge()
}
