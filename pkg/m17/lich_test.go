package m17

import "testing"

func TestLICHRoundTripAllFragments(t *testing.T) {
	lsf, err := NewVoiceLSF("W1AW", "N0CALL")
	if err != nil {
		t.Fatalf("NewVoiceLSF: %v", err)
	}
	body := lsf.Marshal()

	asm := NewLICHAssembler()
	for i := 0; i < LICHFragmentCount; i++ {
		meta := EncodeLICH(i, body)
		fragIdx, data, ok := DecodeLICH(meta)
		if !ok {
			t.Fatalf("DecodeLICH reported uncorrectable for a clean fragment %d", i)
		}
		if fragIdx != i {
			t.Fatalf("fragment index mismatch: got %d, want %d", fragIdx, i)
		}
		asm.AddFragment(fragIdx, data)
	}

	if !asm.Complete() {
		t.Fatalf("assembler not complete after all fragments applied")
	}

	got, err := asm.LSF()
	if err != nil {
		t.Fatalf("LSF reconstruction failed: %v", err)
	}
	if got.DstCallsign() != "W1AW" || got.SrcCallsign() != "N0CALL" {
		t.Fatalf("reconstructed LSF callsigns wrong: %q/%q", got.DstCallsign(), got.SrcCallsign())
	}
}
