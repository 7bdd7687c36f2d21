package modem

import (
	"testing"

	"github.com/openrtx/m17modem/pkg/dsp"
	"github.com/openrtx/m17modem/pkg/m17"
	"github.com/openrtx/m17modem/pkg/voice"
)

func TestTransmitterBeginCallSyncword(t *testing.T) {
	tx := NewTransmitter()
	frame, err := tx.BeginCall("ALL", "N0CALL")
	if err != nil {
		t.Fatalf("BeginCall: %v", err)
	}
	if len(frame) < 2 {
		t.Fatalf("frame too short: %d bytes", len(frame))
	}
	got := uint16(frame[0])<<8 | uint16(frame[1])
	if got != m17.SyncwordLSF {
		t.Fatalf("syncword = %#04x, want %#04x", got, m17.SyncwordLSF)
	}
	if tx.State() != m17.StateLSFSent {
		t.Fatalf("state = %v, want StateLSFSent", tx.State())
	}
}

func TestTransmitterVoiceFrameAdvancesState(t *testing.T) {
	tx := NewTransmitter()
	if _, err := tx.BeginCall("ALL", "N0CALL"); err != nil {
		t.Fatalf("BeginCall: %v", err)
	}
	frame := tx.VoiceFrame(voice.Frame{}, voice.Frame{}, false)
	if len(frame) < 2 {
		t.Fatalf("frame too short: %d bytes", len(frame))
	}
	got := uint16(frame[0])<<8 | uint16(frame[1])
	if got != m17.SyncwordStream {
		t.Fatalf("syncword = %#04x, want %#04x", got, m17.SyncwordStream)
	}
	if tx.State() != m17.StateStreaming {
		t.Fatalf("state = %v, want StateStreaming", tx.State())
	}
}

func TestTransmitterBasebandShapesEachSymbol(t *testing.T) {
	tx := NewTransmitter()
	frame, err := tx.BeginCall("ALL", "N0CALL")
	if err != nil {
		t.Fatalf("BeginCall: %v", err)
	}

	baseband := tx.Baseband(frame)
	want := len(frame) * 4 * dsp.SamplesPerSymbol
	if len(baseband) != want {
		t.Fatalf("Baseband length = %d, want %d", len(baseband), want)
	}

	allZero := true
	for _, s := range baseband {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatalf("Baseband output is all zero, RRC shaper did not run")
	}
}

func TestCallTrackerLifecycle(t *testing.T) {
	var tr CallTracker

	if ended := tr.Observe(FrameEvent{IsLSF: true, LSF: mustVoiceLSF(t, "ALL", "N0CALL")}); ended {
		t.Fatalf("LSF event should never end a call")
	}
	if !tr.Active {
		t.Fatalf("tracker should be active after an LSF event")
	}
	if tr.SrcCallsign != "N0CALL" || tr.DstCallsign != "ALL" {
		t.Fatalf("callsigns = %s/%s, want N0CALL/ALL", tr.SrcCallsign, tr.DstCallsign)
	}

	for i := 0; i < 3; i++ {
		ended := tr.Observe(FrameEvent{Stream: m17.StreamFrame{FrameNumber: uint16(i)}})
		if ended {
			t.Fatalf("non-final frame %d should not end the call", i)
		}
	}
	if tr.FrameCount != 3 {
		t.Fatalf("FrameCount = %d, want 3", tr.FrameCount)
	}

	ended := tr.Observe(FrameEvent{Stream: m17.StreamFrame{FrameNumber: 3 | m17.LastFrameBit}})
	if !ended {
		t.Fatalf("last frame should end the call")
	}
	if tr.FrameCount != 4 {
		t.Fatalf("FrameCount = %d, want 4", tr.FrameCount)
	}

	tr.Reset()
	if tr.Active {
		t.Fatalf("tracker should be inactive after Reset")
	}
}

func TestCallTrackerCountsCRCFailuresWhileActive(t *testing.T) {
	var tr CallTracker
	tr.Observe(FrameEvent{Err: errDummy{}})
	if tr.CRCFailures != 0 {
		t.Fatalf("CRCFailures = %d before any LSF, want 0", tr.CRCFailures)
	}

	tr.Observe(FrameEvent{IsLSF: true, LSF: mustVoiceLSF(t, "ALL", "N0CALL")})
	tr.Observe(FrameEvent{Err: errDummy{}})
	if tr.CRCFailures != 1 {
		t.Fatalf("CRCFailures = %d, want 1", tr.CRCFailures)
	}
}

type errDummy struct{}

func (errDummy) Error() string { return "dummy" }

func mustVoiceLSF(t *testing.T, dst, src string) m17.LSF {
	t.Helper()
	lsf, err := m17.NewVoiceLSF(dst, src)
	if err != nil {
		t.Fatalf("NewVoiceLSF: %v", err)
	}
	return lsf
}

// TestReceiverRoundTripsLSF drives a Transmitter-built LSF frame through
// symbol mapping and the Receiver's correlator/slicer/disassembler chain,
// at a clean (noise-free) signal level, and checks the recovered LSF
// matches what was sent.
func TestReceiverRoundTripsLSF(t *testing.T) {
	tx := NewTransmitter()
	onAir, err := tx.BeginCall("ALL", "N0CALL")
	if err != nil {
		t.Fatalf("BeginCall: %v", err)
	}

	const amplitude = 8192
	var baseband []int16
	for _, b := range onAir {
		for _, sym := range dsp.ByteToSymbols(b) {
			level := int16(sym) * amplitude
			for k := 0; k < SamplesPerSymbolRX; k++ {
				baseband = append(baseband, level)
			}
		}
	}
	// Trailing padding so the slicing window never runs past the buffer.
	for i := 0; i < 4*SamplesPerSymbolRX; i++ {
		baseband = append(baseband, 0)
	}

	rx := NewReceiver(ReceiverConfig{PositiveThreshold: 1 << 16, NegativeThreshold: -(1 << 16)})

	var events []FrameEvent
	const chunk = 64
	for i := 0; i < len(baseband); i += chunk {
		end := i + chunk
		if end > len(baseband) {
			end = len(baseband)
		}
		events = append(events, rx.ProcessBlock(baseband[i:end])...)
	}

	var sawLSF bool
	for _, ev := range events {
		if ev.IsLSF && ev.Err == nil {
			sawLSF = true
			if ev.LSF.SrcCallsign() != "N0CALL" {
				t.Errorf("SrcCallsign = %s, want N0CALL", ev.LSF.SrcCallsign())
			}
			if ev.LSF.DstCallsign() != "ALL" {
				t.Errorf("DstCallsign = %s, want ALL", ev.LSF.DstCallsign())
			}
		}
	}
	if !sawLSF {
		t.Fatalf("receiver never produced a locked, CRC-valid LSF from a noiseless synthetic signal")
	}
}
