// Package voice defines the boundary between the M17 frame layer and a
// voice codec. OpenRTX treats Codec 2 as an external collaborator the
// baseband never looks inside; this package keeps that boundary: a Codec2
// frame is an opaque 8-byte payload, produced and consumed by whatever
// codec implementation is wired in at runtime.
package voice

import "errors"

// FrameBytes is the size of one Codec 2 3200-mode voice frame, two of
// which fill an M17 stream frame's 128-bit voice field.
const FrameBytes = 8

// ErrShortFrame reports a frame shorter than FrameBytes.
var ErrShortFrame = errors.New("voice: codec frame too short")

// Frame is one opaque Codec 2 frame.
type Frame [FrameBytes]byte

// Encoder turns PCM audio into Codec 2 frames. Implementations wrap an
// actual codec; this package only defines the contract.
type Encoder interface {
	// Encode compresses one frame's worth of PCM samples (codec-defined
	// frame duration, typically 40ms for two 3200-mode frames) into Codec 2
	// frames.
	Encode(pcm []int16) ([]Frame, error)
}

// Decoder turns Codec 2 frames back into PCM audio.
type Decoder interface {
	Decode(frames []Frame) ([]int16, error)
}

// PackTwo packs two Codec 2 frames into the 128-bit voice field layout
// used by pkg/m17.StreamFrame.Voice.
func PackTwo(a, b Frame) [2]uint64 {
	return [2]uint64{beUint64(a[:]), beUint64(b[:])}
}

// UnpackTwo reverses PackTwo.
func UnpackTwo(voice [2]uint64) (a, b Frame) {
	putBeUint64(a[:], voice[0])
	putBeUint64(b[:], voice[1])
	return a, b
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func putBeUint64(b []byte, v uint64) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
