package m17

import "errors"

// LSFMetaBytes is the size of the LSF's application-specific metadata
// field (spec.md §3: 112 bits).
const LSFMetaBytes = 14

// ErrShortLSF reports a buffer too small to hold a parsed LSF.
var ErrShortLSF = errors.New("m17: short link setup frame")

// ErrLSFCRC reports an LSF whose trailing CRC-16 does not match its body.
var ErrLSFCRC = errors.New("m17: link setup frame CRC mismatch")

// LinkType enumerates the LSF type field's low bits (spec.md §4.1).
type LinkType uint16

const (
	LinkTypePacket LinkType = 0
	LinkTypeStream LinkType = 1
)

// LSF is a parsed Link Setup Frame: destination/source callsigns, a type
// field describing the stream to follow, opaque metadata, and a CRC.
type LSF struct {
	Dst  [6]byte
	Src  [6]byte
	Type uint16
	Meta [LSFMetaBytes]byte
}

// DstCallsign and SrcCallsign decode the LSF's base-40 packed callsigns.
func (l LSF) DstCallsign() string { return DecodeCallsign(l.Dst) }
func (l LSF) SrcCallsign() string { return DecodeCallsign(l.Src) }

// StreamType reports whether the LSF's low type bit selects a voice stream.
func (l LSF) StreamType() LinkType { return LinkType(l.Type & 1) }

// Marshal serialises the LSF to its 28-byte wire body (224 bits:
// dst48+src48+type16+meta112) followed by a 2-byte CRC-16, for
// LSFPayloadBits (240 bits, 30 bytes) total.
func (l LSF) Marshal() []byte {
	body := make([]byte, 0, LSFPayloadBits/8)
	body = append(body, l.Dst[:]...)
	body = append(body, l.Src[:]...)
	body = append(body, byte(l.Type>>8), byte(l.Type))
	body = append(body, l.Meta[:]...)
	return AppendCRC(body)
}

// ParseLSF decodes data (as produced by Marshal) back into an LSF,
// validating its trailing CRC-16.
func ParseLSF(data []byte) (LSF, error) {
	var lsf LSF
	if len(data) < LSFPayloadBits/8 {
		return lsf, ErrShortLSF
	}
	if !CheckCRC(data[:LSFPayloadBits/8]) {
		return lsf, ErrLSFCRC
	}

	copy(lsf.Dst[:], data[0:6])
	copy(lsf.Src[:], data[6:12])
	lsf.Type = uint16(data[12])<<8 | uint16(data[13])
	copy(lsf.Meta[:], data[14:14+LSFMetaBytes])
	return lsf, nil
}

// NewVoiceLSF builds an LSF for a standard voice stream between two
// callsigns with no additional metadata.
func NewVoiceLSF(dst, src string) (LSF, error) {
	var lsf LSF
	d, err := EncodeCallsign(dst)
	if err != nil {
		return lsf, err
	}
	s, err := EncodeCallsign(src)
	if err != nil {
		return lsf, err
	}
	lsf.Dst = d
	lsf.Src = s
	lsf.Type = uint16(LinkTypeStream)
	return lsf, nil
}
