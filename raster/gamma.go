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

package raster

import (
	"math"
	"sync"
)

// DefaultGammaExponent is used when no exponent is configured.
const DefaultGammaExponent = 2.2

const linearLevels = 4096

// Gamma holds lookup tables between 8-bit encoded channel values and
// linear light intensities. A Gamma is immutable and may be shared.
type Gamma struct {
	exp        float64
	toLinear   [256]float32
	fromLinear [linearLevels]uint8
}

// NewGamma builds the tables for the given exponent. Exponents which are
// not positive select [DefaultGammaExponent].
func NewGamma(exp float64) *Gamma {
	if !(exp > 0) {
		exp = DefaultGammaExponent
	}
	g := &Gamma{exp: exp}
	for i := range g.toLinear {
		g.toLinear[i] = float32(math.Pow(float64(i)/255, exp))
	}
	for i := range g.fromLinear {
		v := math.Pow(float64(i)/(linearLevels-1), 1/exp)
		g.fromLinear[i] = uint8(math.Round(v * 255))
	}
	return g
}

var defaultGamma = sync.OnceValue(func() *Gamma {
	return NewGamma(DefaultGammaExponent)
})

// DefaultGamma returns the shared tables for [DefaultGammaExponent].
func DefaultGamma() *Gamma {
	return defaultGamma()
}

// Exponent returns the gamma exponent of g.
func (g *Gamma) Exponent() float64 { return g.exp }

// ToLinear maps an encoded channel value to linear light in [0, 1].
func (g *Gamma) ToLinear(v uint8) float32 { return g.toLinear[v] }

// FromLinear maps linear light in [0, 1] to an encoded channel value.
// Arguments outside the range are clamped.
func (g *Gamma) FromLinear(x float32) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return g.fromLinear[int(x*(linearLevels-1)+0.5)]
}
