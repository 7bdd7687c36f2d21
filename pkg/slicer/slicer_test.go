package slicer

import "testing"

// Round-trip: shape a symbol to a nominal level, slice it back, expect the
// same level within +-1 when noise is zero (spec.md §8 invariant 4).
func TestQuantizeRoundTripNoNoise(t *testing.T) {
	s := New(EnvelopeAlpha)

	// Warm up the envelope with a representative burst so thresholds are set.
	levels := []int16{3 * 8192, 1 * 8192, -1 * 8192, -3 * 8192}
	for i := 0; i < 50; i++ {
		s.Update(levels[i%len(levels)])
	}

	for _, want := range []int8{+3, +1, -1, -3} {
		sample := int16(want) * 8192
		s.Update(sample)
		got := s.Quantize(sample)
		if got != want {
			t.Errorf("Quantize(%d) = %d, want %d", sample, got, want)
		}
	}
}

func TestLockedInvariant(t *testing.T) {
	s := New(EnvelopeAlpha)
	if s.Locked() {
		t.Fatalf("fresh slicer should not report locked")
	}
	s.Update(8192)
	s.Update(-8192)
	if !s.Locked() {
		t.Fatalf("expected qnt_min < 0 < qnt_max after positive and negative samples")
	}
}

func TestRecoverFrameLength(t *testing.T) {
	s := New(EnvelopeAlpha)
	baseband := make([]int16, 2+PayloadSymbols*SamplesPerSymbol+8)
	for i := range baseband {
		if i%SamplesPerSymbol == 2 {
			baseband[i] = 3 * 8192
		}
	}

	frame := s.RecoverFrame(baseband, 0)
	if len(frame) != FrameBytes {
		t.Fatalf("frame length = %d, want %d", len(frame), FrameBytes)
	}
}
