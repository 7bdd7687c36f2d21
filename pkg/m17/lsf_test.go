package m17

import "testing"

func TestLSFMarshalParseRoundTrip(t *testing.T) {
	lsf, err := NewVoiceLSF("W1AW", "N0CALL")
	if err != nil {
		t.Fatalf("NewVoiceLSF: %v", err)
	}
	lsf.Meta[0] = 0xAB

	data := lsf.Marshal()
	if len(data) != LSFPayloadBits/8 {
		t.Fatalf("Marshal length = %d, want %d", len(data), LSFPayloadBits/8)
	}

	got, err := ParseLSF(data)
	if err != nil {
		t.Fatalf("ParseLSF: %v", err)
	}
	if got.DstCallsign() != "W1AW" || got.SrcCallsign() != "N0CALL" {
		t.Errorf("callsigns = %q/%q, want W1AW/N0CALL", got.DstCallsign(), got.SrcCallsign())
	}
	if got.StreamType() != LinkTypeStream {
		t.Errorf("StreamType() = %v, want LinkTypeStream", got.StreamType())
	}
	if got.Meta != lsf.Meta {
		t.Errorf("Meta mismatch: got %x, want %x", got.Meta, lsf.Meta)
	}
}

func TestLSFRejectsCorruptCRC(t *testing.T) {
	lsf, _ := NewVoiceLSF("W1AW", "N0CALL")
	data := lsf.Marshal()
	data[0] ^= 0xFF
	if _, err := ParseLSF(data); err != ErrLSFCRC {
		t.Fatalf("expected ErrLSFCRC, got %v", err)
	}
}

func TestLSFRejectsShortBuffer(t *testing.T) {
	if _, err := ParseLSF(make([]byte, 4)); err != ErrShortLSF {
		t.Fatalf("expected ErrShortLSF, got %v", err)
	}
}
