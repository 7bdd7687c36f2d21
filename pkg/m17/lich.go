package m17

import "github.com/openrtx/m17modem/pkg/golay"

// LICH (link information channel) carries the LSF in small pieces riding
// inside every stream frame's meta field, so a receiver that joins mid-
// stream can recover the link setup without waiting for a fresh LSF frame.
// This resolves the bit-budget gap between spec.md §3 (which lists Golay
// coding as one of the frame assembler's stages) and §4.6 (which doesn't
// otherwise say what it protects): here it protects LICH fragments.
//
// Layout, spreading the 30 LSF bytes (240 bits) over 6 fragments of 4
// Golay(24,12) codewords (48 bits of payload capacity) each:
// each stream frame's 96-bit meta field holds 4 Golay(24,12) codewords.
// The first codeword's 12 information bits are [3-bit fragment index][9
// bits of LSF data]; the remaining three codewords carry 12 LSF data bits
// each. That's 45 LSF-data bits per fragment, so 6 fragments (270 bits of
// capacity, last one zero-padded) cover the 240-bit LSF with redundancy.

// LICHFragmentDataBits is how many LSF bits one LICH fragment carries.
const LICHFragmentDataBits = 45

// LICHFragmentCount is how many fragments are needed to cover LSFPayloadBits.
const LICHFragmentCount = (LSFPayloadBits + LICHFragmentDataBits - 1) / LICHFragmentDataBits // 6

// EncodeLICH packs fragment fragIndex (0..LICHFragmentCount-1) of an LSF's
// 240-bit body into a 12-byte (96-bit) meta field using four Golay(24,12)
// codewords.
func EncodeLICH(fragIndex int, lsfBits []byte) [12]byte {
	var meta [12]byte

	start := fragIndex * LICHFragmentDataBits
	get := func(i int) bool {
		bit := start + i
		if bit >= LSFPayloadBits {
			return false
		}
		return readBit(lsfBits, uint(bit))
	}

	word0 := uint16(fragIndex&0b111) << 9
	for i := 0; i < 9; i++ {
		if get(i) {
			word0 |= 1 << (8 - i)
		}
	}

	words := [4]uint16{word0, 0, 0, 0}
	for w := 1; w < 4; w++ {
		var word uint16
		for i := 0; i < 12; i++ {
			if get(9 + (w-1)*12 + i) {
				word |= 1 << (11 - i)
			}
		}
		words[w] = word
	}

	for w, data := range words {
		cw := golay.Encode(data)
		meta[w*3+0] = byte(cw >> 16)
		meta[w*3+1] = byte(cw >> 8)
		meta[w*3+2] = byte(cw)
	}
	return meta
}

// DecodeLICH recovers the fragment index and up to LICHFragmentDataBits of
// LSF data from a 12-byte meta field, correcting up to three bit errors per
// Golay codeword. ok is false if any codeword proved uncorrectable.
func DecodeLICH(meta [12]byte) (fragIndex int, data [LICHFragmentDataBits]bool, ok bool) {
	var words [4]uint16
	for w := 0; w < 4; w++ {
		cw := uint32(meta[w*3])<<16 | uint32(meta[w*3+1])<<8 | uint32(meta[w*3+2])
		dec := golay.Decode(cw)
		if dec == golay.Uncorrectable {
			return 0, data, false
		}
		words[w] = dec
	}

	fragIndex = int(words[0] >> 9)
	for i := 0; i < 9; i++ {
		data[i] = words[0]&(1<<(8-i)) != 0
	}
	for w := 1; w < 4; w++ {
		for i := 0; i < 12; i++ {
			data[9+(w-1)*12+i] = words[w]&(1<<(11-i)) != 0
		}
	}
	return fragIndex, data, true
}

// LICHAssembler accumulates fragments recovered across successive stream
// frames into a reconstructed LSF, so a receiver can join mid-stream.
type LICHAssembler struct {
	bits [LSFPayloadBits]bool
	have [LICHFragmentCount]bool
}

// NewLICHAssembler returns an empty assembler.
func NewLICHAssembler() *LICHAssembler { return &LICHAssembler{} }

// AddFragment folds a decoded fragment into the assembler.
func (a *LICHAssembler) AddFragment(fragIndex int, data [LICHFragmentDataBits]bool) {
	if fragIndex < 0 || fragIndex >= LICHFragmentCount {
		return
	}
	start := fragIndex * LICHFragmentDataBits
	for i, b := range data {
		bit := start + i
		if bit >= LSFPayloadBits {
			break
		}
		a.bits[bit] = b
	}
	a.have[fragIndex] = true
}

// Complete reports whether every fragment has been observed at least once.
func (a *LICHAssembler) Complete() bool {
	for _, h := range a.have {
		if !h {
			return false
		}
	}
	return true
}

// LSF reconstructs the accumulated LSF bits into an LSF, validating CRC.
func (a *LICHAssembler) LSF() (LSF, error) {
	buf := make([]byte, LSFPayloadBits/8)
	for i, b := range a.bits {
		if b {
			writeBit(buf, uint(i), true)
		}
	}
	return ParseLSF(buf)
}
