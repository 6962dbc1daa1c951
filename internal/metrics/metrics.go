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


// Package metrics exposes Prometheus metrics for the renderer and the map
// server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version  string
	Revision string
}

type Provider struct {
	reg       *prometheus.Registry
	buildInfo *prometheus.GaugeVec
}

// Init creates a registry with the Go runtime and process collectors and a
// build info gauge.
func Init(build BuildInfo) *Provider {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "carto_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version", "revision"},
	)
	reg.MustRegister(info)
	if build.Version == "" {
		build.Version = "dev"
	}
	info.WithLabelValues(build.Version, build.Revision).Set(1)

	return &Provider{reg: reg, buildInfo: info}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

func (p *Provider) Registerer() prometheus.Registerer { return p.reg }

// Render holds the collectors updated while maps are rendered.
// A nil *Render is valid and records nothing.
type Render struct {
	duration  prometheus.Histogram
	features  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	tileCache *prometheus.CounterVec
}

// NewRender creates the render collectors and registers them with reg.
// If reg is nil, the collectors are created but not registered.
func NewRender(reg prometheus.Registerer) *Render {
	m := &Render{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carto_render_duration_seconds",
			Help:    "Time taken to render one map.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		features: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carto_features_rendered_total",
			Help: "Features drawn, by layer.",
		}, []string{"layer"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carto_feature_errors_total",
			Help: "Features skipped because of an error, by kind.",
		}, []string{"kind"}),
		tileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carto_tile_cache_results_total",
			Help: "Tile cache lookups by tier and outcome.",
		}, []string{"tier", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.duration, m.features, m.errors, m.tileCache)
	}
	return m
}

func (m *Render) ObserveRender(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}

func (m *Render) AddFeatures(layer string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.features.WithLabelValues(layer).Add(float64(n))
}

func (m *Render) IncFeatureError(kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(kind).Inc()
}

// ObserveTileCache records one cache lookup. Tier is "memory" or "redis".
func (m *Render) ObserveTileCache(tier string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.tileCache.WithLabelValues(tier, outcome).Inc()
}
