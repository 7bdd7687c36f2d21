package m17

import "testing"

func TestCallsignRoundTrip(t *testing.T) {
	cases := []string{"N0CALL", "W1AW", "KD9ABC/P", "A"}
	for _, cs := range cases {
		enc, err := EncodeCallsign(cs)
		if err != nil {
			t.Fatalf("EncodeCallsign(%q): %v", cs, err)
		}
		got := DecodeCallsign(enc)
		if got != cs {
			t.Errorf("round trip %q -> %x -> %q", cs, enc, got)
		}
	}
}

func TestCallsignTooLong(t *testing.T) {
	if _, err := EncodeCallsign("TOOLONGCALLSIGN"); err != ErrCallsignTooLong {
		t.Fatalf("expected ErrCallsignTooLong, got %v", err)
	}
}

func TestCallsignInvalidChar(t *testing.T) {
	if _, err := EncodeCallsign("N0*ALL"); err != ErrInvalidCallsignChar {
		t.Fatalf("expected ErrInvalidCallsignChar, got %v", err)
	}
}

func TestEmptyCallsignEncodesToZero(t *testing.T) {
	enc, err := EncodeCallsign("")
	if err != nil {
		t.Fatalf("EncodeCallsign(\"\"): %v", err)
	}
	if enc != [6]byte{} {
		t.Fatalf("expected all-zero encoding for empty callsign, got %x", enc)
	}
	if DecodeCallsign(enc) != "" {
		t.Fatalf("expected empty decode for zero encoding")
	}
}
