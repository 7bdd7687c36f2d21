package m17

import "testing"

func TestStreamFrameMarshalParseRoundTrip(t *testing.T) {
	f := StreamFrame{
		FrameNumber: 42,
		Voice:       [2]uint64{0x0102030405060708, 0x1112131415161718},
	}
	f.Meta[0] = 0xCD

	data := f.Marshal()
	if len(data) != StreamPayloadBits/8 {
		t.Fatalf("Marshal length = %d, want %d", len(data), StreamPayloadBits/8)
	}

	got, err := ParseStreamFrame(data)
	if err != nil {
		t.Fatalf("ParseStreamFrame: %v", err)
	}
	if got.FrameNumber != f.FrameNumber || got.Voice != f.Voice || got.Meta != f.Meta {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, f)
	}
	if got.IsLast() {
		t.Errorf("IsLast() true for a frame number without the last-frame bit")
	}
}

func TestStreamFrameLastBit(t *testing.T) {
	f := StreamFrame{FrameNumber: 5 | LastFrameBit}
	data := f.Marshal()
	got, err := ParseStreamFrame(data)
	if err != nil {
		t.Fatalf("ParseStreamFrame: %v", err)
	}
	if !got.IsLast() {
		t.Errorf("IsLast() false for a frame with the last-frame bit set")
	}
}
