// Package correlator implements the sliding-window cross-correlator and
// peak-triggered frame synchroniser described in spec.md §4.3.
//
// Grounded on Correlator.hpp / Synchronizer.hpp (OpenRTX original_source)
// for the algorithm; struct/method naming follows the conventions of the
// teacher's pkg/protocol/sync.go.
package correlator

import "math"

// Correlator holds a ring buffer of SyncwordSize*SamplesPerSymbol samples
// and computes the cross-correlation between that history and a syncword.
type Correlator struct {
	syncwordSize     int
	samplesPerSymbol int
	buf              []int16
	lastWriteIdx     int
}

// New creates a Correlator sized for the given syncword length (in symbols)
// and oversampling factor.
func New(syncwordSize, samplesPerSymbol int) *Correlator {
	return &Correlator{
		syncwordSize:     syncwordSize,
		samplesPerSymbol: samplesPerSymbol,
		buf:              make([]int16, syncwordSize*samplesPerSymbol),
		lastWriteIdx:     0,
	}
}

// Len returns the size N of the ring buffer.
func (c *Correlator) Len() int { return len(c.buf) }

// Sample writes x into the ring buffer and advances lastWriteIdx modulo N.
// lastWriteIdx is always kept in [0, N) — the ring-buffer invariant of
// spec.md §3.
func (c *Correlator) Sample(x int16) {
	c.buf[c.lastWriteIdx] = x
	c.lastWriteIdx = (c.lastWriteIdx + 1) % len(c.buf)
}

// LastWriteIndex returns lastWriteIdx: the slot the next sample will be
// written to, which holds the oldest buffered sample.
func (c *Correlator) LastWriteIndex() int { return c.lastWriteIdx }

// PhaseIndex returns lastWriteIdx mod samplesPerSymbol, the sub-sample
// phase of the next write slot.
func (c *Correlator) PhaseIndex() int { return c.lastWriteIdx % c.samplesPerSymbol }

// Convolve computes the cross-correlation between the buffered history and
// the given syncword: one sample per symbol, starting at lastWriteIdx+1
// (one past the oldest buffered sample) and stepping samplesPerSymbol, so
// the last tap falls samplesPerSymbol-2 samples before the newest sample.
func (c *Correlator) Convolve(syncword []int8) int32 {
	var sum int32
	n := len(c.buf)
	pos := c.lastWriteIdx + 1
	for _, sym := range syncword {
		sum += int32(sym) * int32(c.buf[pos%n])
		pos += c.samplesPerSymbol
	}
	return sum
}

// Stats tracks an exponentially-weighted mean/variance of correlation
// output, used to adapt the peak-detection threshold.
type Stats struct {
	alpha float64
	mean  float64
	vari  float64
}

// NewStats creates a Stats tracker with the given EMA smoothing factor
// (spec.md nominal value 0.01).
func NewStats(alpha float64) *Stats {
	return &Stats{alpha: alpha}
}

// Update folds a new correlation sample into the running mean/variance.
func (s *Stats) Update(value int32) {
	delta := float64(value) - s.mean
	incr := s.alpha * delta
	s.mean += incr
	s.vari = (1 - s.alpha) * (s.vari + delta*incr)
}

// StdDev returns the current standard deviation estimate.
func (s *Stats) StdDev() float64 {
	return math.Sqrt(s.vari)
}

// Reset clears the mean/variance accumulators.
func (s *Stats) Reset() {
	s.mean = 0
	s.vari = 0
}
