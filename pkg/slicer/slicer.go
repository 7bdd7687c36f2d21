// Package slicer implements the envelope-tracked 4-FSK quantiser described
// in spec.md §4.4.
//
// Grounded on the updateQuantizationStats/quantize logic in OpenRTX's
// M17Demodulator.cpp (original_source).
package slicer

// EnvelopeAlpha is the per-sample decay factor used when no new peak is
// observed (spec.md nominal value ~0.999).
const EnvelopeAlpha = 0.999

// Slicer tracks the positive/negative envelope of a recovered baseband
// stream and quantises samples to the M17 4-FSK alphabet {+3,+1,-1,-3}.
type Slicer struct {
	alpha  float64
	qntMax float64
	qntMin float64
}

// New creates a Slicer with the given envelope decay factor.
func New(alpha float64) *Slicer {
	return &Slicer{alpha: alpha}
}

// Update folds a new sample into the max/min envelope trackers.
func (s *Slicer) Update(sample int16) {
	v := float64(sample)
	if v > s.qntMax {
		s.qntMax = v
	} else {
		s.qntMax *= s.alpha
	}
	if v < s.qntMin {
		s.qntMin = v
	} else {
		s.qntMin *= s.alpha
	}
}

// Max returns the current positive envelope estimate.
func (s *Slicer) Max() float64 { return s.qntMax }

// Min returns the current negative envelope estimate.
func (s *Slicer) Min() float64 { return s.qntMin }

// Locked reports whether the envelope thresholds satisfy the invariant
// qnt_min < 0 < qnt_max required while a lock is held.
func (s *Slicer) Locked() bool {
	return s.qntMin < 0 && s.qntMax > 0
}

// Quantize maps a sample to one of the four 4-FSK symbol levels using the
// current envelope thresholds.
func (s *Slicer) Quantize(sample int16) int8 {
	v := float64(sample)
	switch {
	case v > s.qntMax*2/3:
		return +3
	case v < s.qntMin*2/3:
		return -3
	case v > 0:
		return +1
	default:
		return -1
	}
}

// Reset clears the envelope trackers.
func (s *Slicer) Reset() {
	s.qntMax = 0
	s.qntMin = 0
}
