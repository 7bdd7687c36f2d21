package modem

import (
	"github.com/openrtx/m17modem/pkg/dsp"
	"github.com/openrtx/m17modem/pkg/m17"
	"github.com/openrtx/m17modem/pkg/voice"
)

// Transmitter drives an m17.Assembler to turn an outgoing call (an LSF
// followed by a sequence of voice frames) into the on-air byte stream a
// TX baseband stage expects: syncword-prefixed, FEC-coded frames back to
// back with no gaps, matching the wire layout pkg/m17/assembler.go
// produces. It also owns the RRC pulse shaper that turns those bytes into
// a 48 kHz baseband sample stream ready for the DAC.
type Transmitter struct {
	asm    *m17.Assembler
	shaper *dsp.LookupFIR
}

// NewTransmitter returns an idle Transmitter.
func NewTransmitter() *Transmitter {
	return &Transmitter{asm: m17.NewAssembler(), shaper: dsp.NewLookupFIR()}
}

// BeginCall starts a transmission between src and dst with no additional
// LSF metadata, returning the on-air bytes for the link setup frame.
func (t *Transmitter) BeginCall(dst, src string) ([]byte, error) {
	lsf, err := m17.NewVoiceLSF(dst, src)
	if err != nil {
		return nil, err
	}
	return t.asm.BeginStream(lsf), nil
}

// VoiceFrame returns the on-air bytes for one voice stream frame carrying
// the given pair of Codec 2 payloads. last marks the final frame of the
// call.
func (t *Transmitter) VoiceFrame(a, b voice.Frame, last bool) []byte {
	return t.asm.NextVoiceFrame(voice.PackTwo(a, b), last)
}

// State reports the assembler's current state.
func (t *Transmitter) State() m17.AssemblerState { return t.asm.State() }

// Baseband pulse-shapes one frame's on-air bytes (as returned by BeginCall
// or VoiceFrame) into a continuous 48 kHz baseband sample stream, zero-
// stuffing between symbols and running the RRC shaper across the whole
// frame. The shaper's filter history carries over between calls, so
// feeding consecutive frames from the same Transmitter produces a
// continuous waveform with no shaping discontinuity at frame boundaries.
func (t *Transmitter) Baseband(frame []byte) []int16 {
	out := make([]int16, 0, len(frame)*4*dsp.SamplesPerSymbol)
	for _, b := range frame {
		for _, sym := range dsp.ByteToSymbols(b) {
			out = append(out, t.shaper.Shape(sym))
			for i := 1; i < dsp.SamplesPerSymbol; i++ {
				out = append(out, t.shaper.Shape(0))
			}
		}
	}
	return out
}
