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


// Cartoserver renders PNG maps over HTTP.
//
// The server loads a single XML map file and answers requests of the form
//
//	GET /map?bbox=minx,miny,maxx,maxy&width=w&height=h
//
// Rendered images are kept in an in-process cache and, if REDIS_ADDR is
// set, in Redis. Settings are read from the environment, see
// [config.FromEnv].
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"seehuhn.de/go/carto"
	"seehuhn.de/go/carto/internal/config"
	"seehuhn.de/go/carto/internal/logger"
	"seehuhn.de/go/carto/internal/metrics"
	"seehuhn.de/go/carto/mapfile"
	"seehuhn.de/go/carto/raster"
	"seehuhn.de/go/carto/tilecache"
)

var (
	Version  = "dev"
	Revision = ""
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	flags := flag.NewFlagSet("cartoserver", flag.ContinueOnError)
	mapFile := flags.String("map", "", "map file (overrides CARTO_MAPFILE)")
	addr := flags.String("addr", "", "listen address (overrides CARTO_ADDR)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg := config.FromEnv()
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	log := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "cartoserver",
	}, out)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := metrics.Init(metrics.BuildInfo{Version: Version, Revision: Revision})
	rm := metrics.NewRender(p.Registerer())

	s, err := newServer(ctx, cfg, log, rm)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}

	log.Info().
		Str("addr", cfg.Addr).
		Str("map", cfg.MapFile).
		Str("version", Version).
		Bool("redis", cfg.RedisAddr != "").
		Msg("starting map server")

	if err := serve(ctx, cfg.Addr, s.routes(p.Handler()), log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		return 1
	}
	log.Info().Msg("server stopped")
	return 0
}

// newServer loads the map and sets up the tile cache.
func newServer(ctx context.Context, cfg config.Config, log zerolog.Logger, rm *metrics.Render) (*server, error) {
	c := carto.NewContext()
	c.Logger = log.With().Str("component", "renderer").Logger()
	c.Gamma = raster.NewGamma(cfg.Gamma)
	if rm != nil {
		c.Metrics = rm
	}

	m, err := mapfile.LoadFile(cfg.MapFile, c)
	if err != nil {
		return nil, err
	}

	cc := tilecache.Config{
		Size:          cfg.TileCacheSize,
		TTL:           cfg.TileCacheTTL,
		RenderTimeout: cfg.RenderTimeout,
		Logger:        log,
	}
	if rm != nil {
		cc.Metrics = rm
	}
	if cfg.RedisAddr != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rc, err := tilecache.NewRedis(dialCtx, cfg.RedisAddr, cfg.RedisPrefix)
		cancel()
		if err != nil {
			return nil, err
		}
		cc.Redis = rc
	}
	cache, err := tilecache.New(cc)
	if err != nil {
		return nil, err
	}

	return &server{
		name:     filepath.Base(cfg.MapFile),
		m:        m,
		renderer: carto.NewRenderer(c),
		cache:    cache,
		log:      log,
		maxSize:  min(cfg.MaxImageSize, carto.MaxSize),
	}, nil
}

func serve(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.NewSlog(&log).Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
