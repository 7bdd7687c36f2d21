// Package modem wires the DSP primitives in pkg/correlator, pkg/slicer,
// pkg/ctcss and pkg/m17 into the two running pipelines a baseband modem
// needs: Receiver turns a stream of baseband samples into recovered LSF
// and stream frames, Transmitter turns LSF/voice frames into a stream of
// baseband samples ready for the DAC.
//
// The per-sample bookkeeping below is this module's own orchestration of
// already-built pieces; its structure follows M17Demodulator.cpp's
// update() loop (original_source): correlate continuously, and once a
// syncword locks, slice a fixed-length frame starting a couple of samples
// past the lock point.
package modem

import (
	"time"

	"github.com/openrtx/m17modem/pkg/correlator"
	"github.com/openrtx/m17modem/pkg/ctcss"
	"github.com/openrtx/m17modem/pkg/m17"
	"github.com/openrtx/m17modem/pkg/slicer"
	"github.com/openrtx/m17modem/pkg/voice"
)

// SamplesPerSymbolRX re-exports pkg/slicer's RX oversampling ratio so
// callers assembling a baseband test signal or a live ADC feed don't need
// to import pkg/slicer directly.
const SamplesPerSymbolRX = slicer.SamplesPerSymbol

// tapeHistory bounds how many trailing baseband samples the receiver
// keeps around to slice a frame out of once a syncword locks: enough for
// the guard offset plus a full payload.
const tapeHistory = 4 + slicer.PayloadSymbols*slicer.SamplesPerSymbol

// FrameEvent reports one frame the Receiver recovered from the baseband
// stream: exactly one of LSF/Stream is populated, matching whichever
// syncword preceded it.
type FrameEvent struct {
	IsLSF  bool
	LSF    m17.LSF
	Stream m17.StreamFrame
	Err    error
}

// Voice unpacks this event's stream frame back into its two Codec 2
// payloads. Only meaningful when IsLSF is false and Err is nil.
func (e FrameEvent) Voice() (a, b voice.Frame) {
	return voice.UnpackTwo(e.Stream.Voice)
}

// Receiver demodulates a raw baseband sample stream into M17 frames. It is
// not safe for concurrent use from multiple goroutines; feed it samples
// from a single consumer goroutine.
type Receiver struct {
	corr *correlator.Correlator
	sync *correlator.Synchronizer
	slc  *slicer.Slicer
	dis  *m17.Disassembler
	tone *ctcss.Detector

	posTh, negTh int32
	sps          int

	tape      []int16
	tapeBase  int // global sample index of tape[0]
	nextIndex int // global sample index of the next incoming sample

	pending    bool
	pendingIdx int
	pendingLSF bool

	// onTone, if set, is called once per completed CTCSS detector block.
	onTone func(ctcss.Result)
}

// ReceiverConfig carries the tunables a Receiver needs from the running
// configuration. The oversampling factor is not configurable here: it
// must match pkg/slicer's SamplesPerSymbol constant, since RecoverFrame's
// sample offsets are hard-coded to it.
type ReceiverConfig struct {
	PositiveThreshold int32
	NegativeThreshold int32
	// MaxConsecutiveCRCFailures is N in spec.md §4.6's failure semantics
	// (N consecutive bad stream CRCs drop the link back to UNLOCKED). Zero
	// falls back to m17.DefaultMaxConsecutiveCRCFailures.
	MaxConsecutiveCRCFailures int
	CTCSS                     *ctcss.Detector // nil disables tone detection
}

// NewReceiver builds a Receiver ready to consume baseband samples.
func NewReceiver(cfg ReceiverConfig) *Receiver {
	return &Receiver{
		corr:  correlator.New(m17.SyncwordSymbolCount, slicer.SamplesPerSymbol),
		sync:  correlator.NewSynchronizer(m17.SyncwordStreamSymbols, slicer.SamplesPerSymbol),
		slc:   slicer.New(slicer.EnvelopeAlpha),
		dis:   m17.NewDisassemblerWithMaxFailures(cfg.MaxConsecutiveCRCFailures),
		tone:  cfg.CTCSS,
		posTh: cfg.PositiveThreshold,
		negTh: cfg.NegativeThreshold,
		sps:   slicer.SamplesPerSymbol,
	}
}

// OnTone registers a callback invoked once per completed CTCSS block.
func (r *Receiver) OnTone(f func(ctcss.Result)) { r.onTone = f }

// State reports the disassembler's current link state.
func (r *Receiver) State() m17.DisassemblerState { return r.dis.State() }

// ProcessBlock feeds one block of baseband samples through correlation,
// tone detection and, when a syncword locks and enough trailing samples
// have arrived, frame slicing and FEC decoding. It returns one FrameEvent
// per frame recovered from this block (usually zero or one).
func (r *Receiver) ProcessBlock(block []int16) []FrameEvent {
	var events []FrameEvent

	for _, sample := range block {
		r.corr.Sample(sample)
		if r.tone != nil {
			res := r.tone.Sample(sample)
			if res.BlockFilled && r.onTone != nil {
				r.onTone(res)
			}
		}

		r.tape = append(r.tape, sample)
		r.nextIndex++
		if len(r.tape) > 2*tapeHistory {
			drop := len(r.tape) - tapeHistory
			r.tape = r.tape[drop:]
			r.tapeBase += drop
		}

		if !r.pending {
			sign := r.sync.Update(r.corr, r.posTh, r.negTh)
			if sign != correlator.None {
				r.pending = true
				r.pendingIdx = r.nextIndex - 1 - r.tapeBase
				r.pendingLSF = sign == correlator.LSF
			}
		}

		if r.pending && len(r.tape)-r.pendingIdx >= slicer.PayloadSymbols*r.sps+2 {
			frame := r.slc.RecoverFrame(r.tape, r.pendingIdx)
			events = append(events, r.decodeFrame(frame[:], r.pendingLSF))
			r.pending = false
		}
	}

	return events
}

func (r *Receiver) decodeFrame(coded []byte, isLSF bool) FrameEvent {
	if isLSF {
		lsf, err := r.dis.ProcessLSF(coded)
		return FrameEvent{IsLSF: true, LSF: lsf, Err: err}
	}
	frame, err := r.dis.ProcessStream(coded)
	return FrameEvent{IsLSF: false, Stream: frame, Err: err}
}

// CallTracker accumulates per-transmission bookkeeping (start time, frame
// count) across a sequence of FrameEvents so the caller can persist a
// CallRecord once the stream ends.
type CallTracker struct {
	Active      bool
	SrcCallsign string
	DstCallsign string
	StartTime   time.Time
	FrameCount  int
	CRCFailures int
}

// Observe folds one FrameEvent into the tracker. It returns true exactly
// once, on the event that ends the transmission (the frame with the last-
// frame bit set, or a decode error arriving while no transmission is
// active terminates nothing).
func (t *CallTracker) Observe(ev FrameEvent) (ended bool) {
	if ev.Err != nil {
		if t.Active {
			t.CRCFailures++
		}
		return false
	}

	if ev.IsLSF {
		t.Active = true
		t.SrcCallsign = ev.LSF.SrcCallsign()
		t.DstCallsign = ev.LSF.DstCallsign()
		t.StartTime = time.Now()
		t.FrameCount = 0
		return false
	}

	if !t.Active {
		return false
	}
	t.FrameCount++
	if ev.Stream.IsLast() {
		return true
	}
	return false
}

// Reset clears the tracker back to its zero state, ready for a new call.
func (t *CallTracker) Reset() { *t = CallTracker{} }
