package audio

import "errors"

// BufferMode selects how a Stream delivers sample blocks to its consumer,
// mirroring OpenRTX's audio_stream.h LINEAR and CIRC_DOUBLE modes.
type BufferMode int

const (
	// ModeLinear is reported by Mode but otherwise handled like
	// ModeCircDouble: blocks keep arriving until Close, and the stream
	// does not complete after its first buffer.
	ModeLinear BufferMode = iota
	// ModeCircDouble splits the buffer into two halves and keeps handing
	// back whichever half isn't currently being filled by the
	// hardware/simulated producer, so a consumer can keep up with an
	// unbounded stream.
	ModeCircDouble
)

// ErrStreamClosed reports an operation on a Stream after Close.
var ErrStreamClosed = errors.New("audio: stream closed")

// Stream models one direction of sample flow between this package's
// arbitration layer and an ADC/DAC/DMA collaborator (the real hardware, or
// pkg/audio/sim's simulated stand-in). getData/sync are blocking
// operations in OpenRTX; here they block on a channel rather than a
// condition variable, matching the Manager's suspend-channel idiom.
type Stream struct {
	mode   BufferMode
	size   int
	ready  chan []int16
	closed chan struct{}
}

// NewStream creates a Stream of the given mode and per-block sample count.
// For ModeCircDouble, size is the size of EACH half.
func NewStream(mode BufferMode, size int) *Stream {
	return &Stream{
		mode:   mode,
		size:   size,
		ready:  make(chan []int16, 2),
		closed: make(chan struct{}),
	}
}

// Push is called by the producer side (hardware or sim) once it has filled
// one block of size samples. It blocks if a previous block hasn't yet been
// consumed and the ready channel (capacity 2, one per buffer half) is full.
func (s *Stream) Push(block []int16) error {
	if len(block) != s.size {
		return errors.New("audio: block size mismatch")
	}
	cp := append([]int16(nil), block...)
	select {
	case s.ready <- cp:
		return nil
	case <-s.closed:
		return ErrStreamClosed
	}
}

// GetData blocks until a filled block is available, then returns it. A
// caller's hold on the Manager should be checked before and after this
// call, since GetData can block across a preemption.
func (s *Stream) GetData() ([]int16, error) {
	select {
	case block := <-s.ready:
		return block, nil
	case <-s.closed:
		return nil, ErrStreamClosed
	}
}

// Sync blocks until the producer has confirmed the currently in-flight
// block boundary, without consuming data. It's used by CIRC_DOUBLE
// consumers that want to pace themselves to the hardware's double-buffer
// swap cadence without losing a block to GetData.
func (s *Stream) Sync() error {
	select {
	case block := <-s.ready:
		// Put it back for the next GetData/Sync to observe; non-blocking
		// because capacity 2 guarantees room right after a receive.
		s.ready <- block
		return nil
	case <-s.closed:
		return ErrStreamClosed
	}
}

// Mode reports the stream's buffering mode.
func (s *Stream) Mode() BufferMode { return s.mode }

// Close releases any blocked GetData/Sync/Push calls with ErrStreamClosed.
func (s *Stream) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}
