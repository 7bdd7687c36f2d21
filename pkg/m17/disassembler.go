package m17

import "errors"

// DisassemblerState is the RX frame recovery state machine (spec.md §2 and
// §9's first open question). OpenRTX's M17Demodulator.cpp left the
// LSF-lock transition's body empty; this implementation fills it in: on
// an LSF syncword the disassembler decodes the LSF immediately and moves
// to StateLocked so a receiver need not wait for the first stream frame
// to know who is transmitting to whom.
type DisassemblerState int

const (
	StateUnlocked DisassemblerState = iota
	StateLocked
	StateRXStreaming
)

// ErrUnexpectedSyncword reports a syncword that doesn't match the
// disassembler's current state (e.g. a stream syncword before any LSF).
var ErrUnexpectedSyncword = errors.New("m17: unexpected syncword for current state")

// DefaultMaxConsecutiveCRCFailures is the default N in spec.md §4.6's
// failure semantics: N consecutive bad stream CRCs drop the link back to
// UNLOCKED.
const DefaultMaxConsecutiveCRCFailures = 5

// Disassembler recovers LSF and stream frames from FEC-coded, interleaved,
// scrambled on-air payloads and tracks link state across a transmission.
type Disassembler struct {
	state               DisassemblerState
	lsf                 LSF
	lich                *LICHAssembler
	conv                *Convolution
	maxConsecutiveFails int
	consecutiveFails    int
}

// NewDisassembler returns a Disassembler in StateUnlocked, using
// DefaultMaxConsecutiveCRCFailures as its UNLOCKED-drop threshold.
func NewDisassembler() *Disassembler {
	return NewDisassemblerWithMaxFailures(DefaultMaxConsecutiveCRCFailures)
}

// NewDisassemblerWithMaxFailures returns a Disassembler in StateUnlocked
// that drops back to UNLOCKED after maxFails consecutive bad stream CRCs.
func NewDisassemblerWithMaxFailures(maxFails int) *Disassembler {
	return &Disassembler{state: StateUnlocked, conv: NewConvolution(), maxConsecutiveFails: maxFails}
}

// State reports the disassembler's current state.
func (d *Disassembler) State() DisassemblerState { return d.state }

// LSF returns the most recently recovered link setup frame, valid once
// State is StateLocked or StateRXStreaming.
func (d *Disassembler) LSF() LSF { return d.lsf }

// ProcessLSF decodes an LSF frame's coded payload (the InterleavedBits
// bytes following the syncword) and transitions UNLOCKED/anything ->
// LOCKED.
func (d *Disassembler) ProcessLSF(coded []byte) (LSF, error) {
	body := d.decodeAndCorrect(coded, LSFPayloadBits, LSFPuncture)
	lsf, err := ParseLSF(body)
	if err != nil {
		// One bad LSF drops back to UNLOCKED (spec.md §4.6).
		d.state = StateUnlocked
		d.consecutiveFails = 0
		return lsf, err
	}

	d.lsf = lsf
	d.lich = NewLICHAssembler()
	d.state = StateLocked
	d.consecutiveFails = 0
	return lsf, nil
}

// ProcessStream decodes a stream frame's coded payload and transitions
// LOCKED/RX_STREAMING -> RX_STREAMING. If the disassembler never saw an
// LSF frame (a receiver joining mid-transmission), the embedded LICH
// fragment is folded in and, once complete, synthesises the LSF so the
// caller still learns the link's endpoints.
func (d *Disassembler) ProcessStream(coded []byte) (StreamFrame, error) {
	if d.state == StateUnlocked {
		d.lich = NewLICHAssembler()
	}

	body := d.decodeAndCorrect(coded, StreamPayloadBits, StreamPuncture)
	frame, err := ParseStreamFrame(body)
	if err != nil {
		// One bad stream CRC emits silence for that frame but stays
		// LOCKED/STREAMING, unless it's the Nth consecutive failure
		// (spec.md §4.6), in which case the link drops back to UNLOCKED.
		d.consecutiveFails++
		if d.consecutiveFails >= d.maxFails() {
			d.state = StateUnlocked
			d.consecutiveFails = 0
		}
		return frame, err
	}
	d.consecutiveFails = 0

	if fragIdx, data, ok := DecodeLICH(frame.Meta); ok {
		d.lich.AddFragment(fragIdx, data)
		if d.lich.Complete() {
			if lsf, lerr := d.lich.LSF(); lerr == nil {
				d.lsf = lsf
			}
		}
	}

	d.state = StateRXStreaming
	if frame.IsLast() {
		d.state = StateUnlocked
	}
	return frame, nil
}

// maxFails returns the configured consecutive-failure threshold, falling
// back to DefaultMaxConsecutiveCRCFailures for a zero-value Disassembler.
func (d *Disassembler) maxFails() int {
	if d.maxConsecutiveFails <= 0 {
		return DefaultMaxConsecutiveCRCFailures
	}
	return d.maxConsecutiveFails
}

// decodeAndCorrect reverses encodeAndProtect: descramble, deinterleave,
// depuncture, then Viterbi-decode back to payloadBits information bits.
func (d *Disassembler) decodeAndCorrect(coded []byte, payloadBits int, punct PuncturePattern) []byte {
	interleaved := append([]byte(nil), coded...)
	Scramble(interleaved) // involution: same call undoes it

	reordered := make([]byte, (InterleavedBits+7)/8)
	Deinterleave(interleaved, reordered)

	depunctured := punct.Depuncture(reordered)

	d.conv.Start()
	nBits := uint(payloadBits + ConvolutionTailBits)
	for i := uint(0); i < nBits; i++ {
		s0 := bitToSoft(depunctured, 2*i)
		s1 := bitToSoft(depunctured, 2*i+1)
		d.conv.Decode(s0, s1)
	}

	out := make([]byte, (payloadBits+ConvolutionTailBits+7)/8+1)
	d.conv.Chainback(out, nBits)

	// Chainback's sliding-window traceback has a ConvolutionTailBits-wide
	// decoding delay: out[ConvolutionTailBits:] holds the recovered
	// payload, not out[0:] (out's leading ConvolutionTailBits bits carry
	// no payload content).
	payload := make([]byte, (payloadBits+7)/8)
	for i := 0; i < payloadBits; i++ {
		writeBit(payload, uint(i), readBit(out, uint(i+ConvolutionTailBits)))
	}
	return payload
}

func bitToSoft(data []byte, bit uint) uint8 {
	if readBit(data, bit) {
		return 1
	}
	return 0
}
