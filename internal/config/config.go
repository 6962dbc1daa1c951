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


// Package config reads the map server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr          string
	MapFile       string
	Gamma         float64
	LogLevel      string
	LogConsole    bool
	LogSampleN    int
	RedisAddr     string
	RedisPrefix   string
	TileCacheSize int
	TileCacheTTL  time.Duration
	RenderTimeout time.Duration
	MaxImageSize  int
}

func FromEnv() Config {
	return Config{
		Addr:          getenv("CARTO_ADDR", ":8080"),
		MapFile:       getenv("CARTO_MAPFILE", "map.xml"),
		Gamma:         getfloat("CARTO_GAMMA", 2.2),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogConsole:    getbool("LOG_CONSOLE", false),
		LogSampleN:    getint("LOG_SAMPLE_N", 0),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPrefix:   getenv("REDIS_PREFIX", "carto:tile:"),
		TileCacheSize: getint("TILE_CACHE_SIZE", 256),
		TileCacheTTL:  getduration("TILE_CACHE_TTL", 10*time.Minute),
		RenderTimeout: getduration("RENDER_TIMEOUT", 30*time.Second),
		MaxImageSize:  getint("MAX_IMAGE_SIZE", 4096),
	}
}

// Validate reports settings which cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Gamma <= 0 {
		errs = append(errs, fmt.Errorf("CARTO_GAMMA must be positive, got %g", c.Gamma))
	}
	if c.MapFile == "" {
		errs = append(errs, errors.New("CARTO_MAPFILE is empty"))
	}
	if c.MaxImageSize < 1 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_SIZE must be positive, got %d", c.MaxImageSize))
	}
	if c.TileCacheSize < 0 {
		errs = append(errs, fmt.Errorf("TILE_CACHE_SIZE must not be negative, got %d", c.TileCacheSize))
	}
	if c.RenderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("RENDER_TIMEOUT must be positive, got %s", c.RenderTimeout))
	}
	return errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
