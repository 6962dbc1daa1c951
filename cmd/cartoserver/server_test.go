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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/carto/geometry"
	"seehuhn.de/go/carto/internal/config"
	"seehuhn.de/go/carto/internal/metrics"
	"seehuhn.de/go/carto/wkb"
)

const testMap = `<Map width="16" height="16" background-color="white" extent="0,0,100,100">
  <Style name="red">
    <Rule>
      <PolygonSymbolizer fill="red"/>
    </Rule>
  </Style>
  <Layer name="left">
    <StyleName>red</StyleName>
    <Datasource>
      <Parameter name="type">wkb</Parameter>
      <Parameter name="file">left.csv</Parameter>
    </Datasource>
  </Layer>
</Map>
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	g := geometry.NewPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 100}, {X: 0, Y: 100}})
	csv := fmt.Sprintf("id,wkb\n1,%s\n", hex.EncodeToString(wkb.Marshal(g, binary.LittleEndian)))
	if err := os.WriteFile(filepath.Join(dir, "left.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "map.xml"), []byte(testMap), 0o644); err != nil {
		t.Fatal(err)
	}

	return config.Config{
		MapFile:       filepath.Join(dir, "map.xml"),
		Gamma:         2.2,
		TileCacheSize: 8,
		TileCacheTTL:  time.Minute,
		RenderTimeout: 5 * time.Second,
		MaxImageSize:  512,
	}
}

func newTestServer(t *testing.T, cfg config.Config) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s, err := newServer(context.Background(), cfg, zerolog.Nop(), metrics.NewRender(reg))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.routes(nil))
	t.Cleanup(ts.Close)
	return ts, reg
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, buf.Bytes()
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, testConfig(t))
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want 200", resp.StatusCode)
	}
	if got := strings.TrimSpace(string(body)); got != "ok" {
		t.Errorf("body=%q want ok", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestMapPNG(t *testing.T) {
	ts, reg := newTestServer(t, testConfig(t))

	url := ts.URL + "/map?bbox=0,0,100,100&width=32&height=32"
	resp, body := get(t, url)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%q", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type=%q", ct)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("first request X-Cache=%q", resp.Header.Get("X-Cache"))
	}

	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 32) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	r, g, b, _ := img.At(8, 16).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("left pixel %d %d %d, want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(24, 16).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("right pixel %d %d %d, want white", r>>8, g>>8, b>>8)
	}

	resp, again := get(t, url)
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache=%q", resp.Header.Get("X-Cache"))
	}
	if !bytes.Equal(body, again) {
		t.Error("cached image differs")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, mf := range families {
		seen[mf.GetName()] = true
	}
	for _, name := range []string{"carto_render_duration_seconds", "carto_tile_cache_results_total"} {
		if !seen[name] {
			t.Errorf("metric %s not recorded", name)
		}
	}
}

func TestMapBadRequest(t *testing.T) {
	ts, _ := newTestServer(t, testConfig(t))
	for _, query := range []string{
		"",
		"bbox=0,0,100&width=10&height=10",
		"bbox=0,0,100,100&width=abc&height=10",
		"bbox=0,0,100,100&width=0&height=10",
		"bbox=0,0,100,100&width=10&height=513",
		"bbox=5,5,5,5&width=10&height=10",
	} {
		resp, _ := get(t, ts.URL+"/map?"+query)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%q: status=%d want 400", query, resp.StatusCode)
		}
	}
}

func TestMapRenderTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.RenderTimeout = time.Nanosecond
	ts, _ := newTestServer(t, cfg)

	resp, body := get(t, ts.URL+"/map?bbox=0,0,100,100&width=32&height=32")
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("status=%d body=%q want 504", resp.StatusCode, body)
	}
}

func TestMapRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)

	cfg := testConfig(t)
	cfg.RedisAddr = mr.Addr()
	cfg.RedisPrefix = "test:"

	ts, _ := newTestServer(t, cfg)
	resp, _ := get(t, ts.URL+"/map?bbox=0,0,100,100&width=16&height=16")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if n := len(mr.Keys()); n != 1 {
		t.Errorf("%d keys in redis, want 1", n)
	}

	// a second instance finds the image in redis
	other, _ := newTestServer(t, cfg)
	resp, _ = get(t, other.URL+"/map?bbox=0,0,100,100&width=16&height=16")
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache=%q want HIT", resp.Header.Get("X-Cache"))
	}
}

func TestStartupErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.MapFile = filepath.Join(t.TempDir(), "missing.xml")
	if _, err := newServer(context.Background(), cfg, zerolog.Nop(), nil); err == nil {
		t.Error("missing map file accepted")
	}

	cfg = testConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"
	if _, err := newServer(context.Background(), cfg, zerolog.Nop(), nil); err == nil {
		t.Error("unreachable redis accepted")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv("CARTO_GAMMA", "-1")
	out := &bytes.Buffer{}
	if code := run(nil, out); code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), "invalid configuration") {
		t.Errorf("log output %q", out.String())
	}
	if code := run([]string{"-nosuchflag"}, out); code != 2 {
		t.Errorf("exit code %d for bad flag, want 2", code)
	}
}
