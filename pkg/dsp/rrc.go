// Package dsp implements the M17 root-raised-cosine pulse shaping filter and
// the symbol <-> sample conversions built on top of it.
//
// Grounded on the 79-tap RRC coefficient table and gain scalings in
// OpenRTX's M17Modulator.cpp / M17Demodulator.cpp (original_source).
package dsp

import "math"

// Taps holds the 79-tap root-raised-cosine filter, beta=0.5, symbol rate
// 4800 Bd sampled at 48 kHz.
var Taps = [79]float64{
	-0.009265784007800534, -0.006136551625729697, -0.001125978562075172,
	0.004891777252042491, 0.01071805138282269, 0.01505751553351295,
	0.01679337935001369, 0.015256245142156299, 0.01042830577908502,
	0.003031522725559901, -0.0055333532968188165, -0.013403099825723372,
	-0.018598682349642525, -0.01944761739590459, -0.015005271935951746,
	-0.0053887880354343935, 0.008056525910253532, 0.022816244158307273,
	0.035513467692208076, 0.04244131815783876, 0.04025481153629372,
	0.02671818654865632, 0.0013810216516704976, -0.03394615682795165,
	-0.07502635967975885, -0.11540977897637611, -0.14703962203941534,
	-0.16119995609538576, -0.14969512896336504, -0.10610329539459686,
	-0.026921412469634916, 0.08757875030779196, 0.23293327870303457,
	0.4006012210123992, 0.5786324696325503, 0.7528286479934068,
	0.908262741447522, 1.0309661131633199, 1.1095611856548013,
	1.1366197723675815, 1.1095611856548013, 1.0309661131633199,
	0.908262741447522, 0.7528286479934068, 0.5786324696325503,
	0.4006012210123992, 0.23293327870303457, 0.08757875030779196,
	-0.026921412469634916, -0.10610329539459686, -0.14969512896336504,
	-0.16119995609538576, -0.14703962203941534, -0.11540977897637611,
	-0.07502635967975885, -0.03394615682795165, 0.0013810216516704976,
	0.02671818654865632, 0.04025481153629372, 0.04244131815783876,
	0.035513467692208076, 0.022816244158307273, 0.008056525910253532,
	-0.0053887880354343935, -0.015005271935951746, -0.01944761739590459,
	-0.018598682349642525, -0.013403099825723372, -0.0055333532968188165,
	0.003031522725559901, 0.01042830577908502, 0.015256245142156299,
	0.01679337935001369, 0.01505751553351295, 0.01071805138282269,
	0.004891777252042491, -0.001125978562075172, -0.006136551625729697,
	-0.009265784007800534,
}

const (
	// TXGain is the scaling applied to the RRC output when shaping symbols
	// for transmission; it sets the modulation index.
	TXGain = 7168.0
	// RXGain is the scaling applied to the RRC output when match-filtering
	// a received baseband stream; it sets RX numerical headroom.
	RXGain = 0.10
)

// FIR is a direct multiply-accumulate implementation of the RRC filter,
// operating on int16 samples. Each call shifts one new sample into the
// filter's history and returns the convolution with Taps, unscaled.
type FIR struct {
	taps    [79]float64
	history [79]float64
}

// NewFIR constructs a direct-form FIR using the standard RRC Taps.
func NewFIR() *FIR {
	f := &FIR{}
	f.taps = Taps
	return f
}

// Push shifts x into the filter history and returns the raw (unscaled)
// convolution output.
func (f *FIR) Push(x int16) float64 {
	copy(f.history[1:], f.history[:len(f.history)-1])
	f.history[0] = float64(x)

	var acc float64
	for i, t := range f.taps {
		acc += t * f.history[i]
	}
	return acc
}

// Shape filters x and returns the scaled TX-gain int16 output.
func (f *FIR) Shape(x int16) int16 {
	return scale(f.Push(x), TXGain)
}

// Match filters x and returns the scaled RX-gain int16 output.
func (f *FIR) Match(x int16) int16 {
	return scale(f.Push(x), RXGain)
}

func scale(v, gain float64) int16 {
	return int16(math.Round(v * gain))
}

// LookupFIR exploits the fact that M17 symbols are drawn from {+3,+1,-1,-3,0}
// by precomputing the impulse response scaled by each non-zero symbol value,
// then producing output as a superposition of time-shifted precomputed
// responses rather than a per-sample multiply-accumulate. It must match
// FIR's output to within rounding noise.
type LookupFIR struct {
	responses map[int8][79]float64 // precomputed taps * symbol, keyed by symbol value
	window    [79]float64          // accumulator window, shifted each Push
}

// NewLookupFIR precomputes the scaled impulse responses for the M17 4-FSK
// alphabet.
func NewLookupFIR() *LookupFIR {
	l := &LookupFIR{responses: make(map[int8][79]float64)}
	for _, sym := range []int8{3, 1, -1, -3} {
		var resp [79]float64
		for i, t := range Taps {
			resp[i] = t * float64(sym)
		}
		l.responses[sym] = resp
	}
	return l
}

// Push feeds one symbol-rate input (a 4-FSK symbol value, or 0 for the
// zero-stuffed samples between symbols) into the filter and returns the
// next raw (unscaled) output sample.
func (l *LookupFIR) Push(symbol int8) float64 {
	if resp, ok := l.responses[symbol]; ok {
		for i, v := range resp {
			l.window[i] += v
		}
	}

	out := l.window[0]
	copy(l.window[:len(l.window)-1], l.window[1:])
	l.window[len(l.window)-1] = 0
	return out
}

// Shape filters a zero-stuffed symbol stream for transmission.
func (l *LookupFIR) Shape(symbol int8) int16 {
	return scale(l.Push(symbol), TXGain)
}
