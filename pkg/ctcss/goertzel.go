// Package ctcss implements a bank of modified Goertzel filters for
// sub-audible CTCSS tone detection, per spec.md §4.7.
//
// Grounded on goertzel.hpp/ctcssDetector.hpp (OpenRTX original_source). No
// library in the retrieved reference pack implements a Goertzel filter; see
// DESIGN.md for why this stays on math.Cos rather than reaching for a
// general DSP/FFT dependency.
package ctcss

import "math"

// NumTones is the size of the standard CTCSS tone bank.
const NumTones = 50

// StandardTones lists the 50 standard CTCSS tone frequencies in Hz.
var StandardTones = [NumTones]float64{
	67.0, 69.3, 71.9, 74.4, 77.0, 79.7, 82.5, 85.4, 88.5, 91.5,
	94.8, 97.4, 100.0, 103.5, 107.2, 110.9, 114.8, 118.8, 123.0, 127.3,
	131.8, 136.5, 141.3, 146.2, 151.4, 156.7, 159.8, 162.2, 165.5, 167.9,
	171.3, 173.8, 177.3, 179.9, 183.5, 186.2, 189.9, 192.8, 196.6, 199.5,
	203.5, 206.5, 210.7, 218.1, 225.7, 229.1, 233.6, 241.8, 250.3, 254.1,
}

// Goertzel is a bank of N modified Goertzel filters sharing a sample clock.
type Goertzel struct {
	k  []float64
	u0 []float64
	u1 []float64
}

// coeff computes the modified Goertzel coefficient k=2*cos(2*pi*f/fs).
func coeff(freq, sampleRate float64) float64 {
	return 2 * math.Cos(2*math.Pi*freq/sampleRate)
}

// NewBank builds a Goertzel filter bank from per-tone coefficients.
func NewBank(coeffs []float64) *Goertzel {
	n := len(coeffs)
	g := &Goertzel{
		k:  append([]float64(nil), coeffs...),
		u0: make([]float64, n),
		u1: make([]float64, n),
	}
	return g
}

// NewStandardBank builds a Goertzel filter bank for the 50 standard CTCSS
// tones at the given sample rate (nominally 2000 Hz).
func NewStandardBank(sampleRate float64) *Goertzel {
	coeffs := make([]float64, NumTones)
	for i, f := range StandardTones {
		coeffs[i] = coeff(f, sampleRate)
	}
	return NewBank(coeffs)
}

// Sample updates the internal states of every filter in the bank with one
// new input value.
func (g *Goertzel) Sample(value int16) {
	x := float64(value)
	for i, k := range g.k {
		u := x + k*g.u0[i] - g.u1[i]
		g.u1[i] = g.u0[i]
		g.u0[i] = u
	}
}

// Samples updates the bank with a block of new input values.
func (g *Goertzel) Samples(values []int16) {
	for _, v := range values {
		g.Sample(v)
	}
}

// Power returns the signal power at the given filter index.
func (g *Goertzel) Power(index int) float64 {
	if index < 0 || index >= len(g.k) {
		return 0
	}
	u0, u1, k := g.u0[index], g.u1[index], g.k[index]
	return u0*u0 + u1*u1 - u0*u1*k
}

// Reset clears filter history across the whole bank.
func (g *Goertzel) Reset() {
	for i := range g.u0 {
		g.u0[i] = 0
		g.u1[i] = 0
	}
}

// NumFilters returns how many filters the bank holds.
func (g *Goertzel) NumFilters() int { return len(g.k) }
