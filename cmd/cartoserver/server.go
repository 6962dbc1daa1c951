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


package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"seehuhn.de/go/carto"
	"seehuhn.de/go/carto/datasource"
	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/internal/logger"
	"seehuhn.de/go/carto/tilecache"
)

// server answers map requests for a single map.
type server struct {
	name     string
	m        *carto.Map
	renderer *carto.Renderer
	cache    *tilecache.Cache
	log      zerolog.Logger
	maxSize  int
}

func (s *server) routes(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.log))
	r.Use(requestLogger(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Get("/map", s.handleMap)
	return r
}

type mapRequest struct {
	bbox          geometry.Envelope
	width, height int
}

func (s *server) parseRequest(r *http.Request) (*mapRequest, error) {
	q := r.URL.Query()
	bbox, err := datasource.ParseEnvelope(q.Get("bbox"))
	if err != nil {
		return nil, fmt.Errorf("bbox: %w", err)
	}
	width, err := s.parseSize(q.Get("width"))
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	height, err := s.parseSize(q.Get("height"))
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	return &mapRequest{bbox: bbox, width: width, height: height}, nil
}

func (s *server) parseSize(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	if n < 1 || n > s.maxSize {
		return 0, fmt.Errorf("%d is outside 1..%d", n, s.maxSize)
	}
	return n, nil
}

func (s *server) handleMap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), &s.log)

	req, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := tilecache.NewKey(s.name, req.bbox, req.width, req.height, "png")
	data, cached, err := s.cache.GetOrRender(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		return s.render(ctx, req)
	})
	switch {
	case err != nil && r.Context().Err() != nil:
		// the client has gone away
		return
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Msg("render timed out")
		http.Error(w, "render timed out", http.StatusGatewayTimeout)
		return
	case err != nil:
		log.Error().Err(err).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(data)
}

func (s *server) render(ctx context.Context, req *mapRequest) ([]byte, error) {
	m := s.m.Clone()
	m.Resize(req.width, req.height)
	m.ZoomToBox(req.bbox)

	start := time.Now()
	img, err := s.renderer.Render(ctx, m)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx, &s.log).Debug().
		Int("width", req.width).
		Int("height", req.height).
		Dur("elapsed", time.Since(start)).
		Msg("map rendered")

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img.NRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
