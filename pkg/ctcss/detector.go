package ctcss

// BlockSize is the number of 2 kHz samples integrated before a detection
// decision is made (spec.md §4.7 nominal block length: 400 samples = 200 ms
// at the 2 kHz detector sample rate).
const BlockSize = 400

// SampleRate is the nominal CTCSS detector sample rate in Hz.
const SampleRate = 2000.0

// Threshold is the ratio a tone's power must exceed over the mean power of
// the whole bank, that tone's own filter included, to be reported as
// present.
const Threshold = 8.0

// Detector runs a Goertzel bank over successive fixed-size blocks and
// reports the strongest standard CTCSS tone, if any clears the bank's
// relative-power threshold.
type Detector struct {
	bank      *Goertzel
	blockSize int
	count     int
}

// NewDetector builds a Detector sampling at sampleRate, deciding once every
// blockSize samples.
func NewDetector(sampleRate float64, blockSize int) *Detector {
	return &Detector{
		bank:      NewStandardBank(sampleRate),
		blockSize: blockSize,
	}
}

// Result is the outcome of evaluating one block of samples.
type Result struct {
	ToneIndex   int     // index into StandardTones, -1 if none detected
	Power       float64 // power of the strongest bin
	MeanPower   float64 // mean power across every filter in the bank, peak included
	OverThresh  bool    // whether Power/MeanPower exceeds Threshold
	BlockFilled bool    // whether a full block had accumulated this call
}

// Sample folds one new ADC sample into the running block. It returns a
// Result with BlockFilled set once blockSize samples have accumulated,
// after which the bank is reset for the next block.
func (d *Detector) Sample(value int16) Result {
	d.bank.Sample(value)
	d.count++
	if d.count < d.blockSize {
		return Result{ToneIndex: -1}
	}
	d.count = 0
	r := d.evaluate()
	d.bank.Reset()
	return r
}

func (d *Detector) evaluate() Result {
	n := d.bank.NumFilters()
	peakIdx := 0
	peakPower := d.bank.Power(0)
	var total float64
	for i := 0; i < n; i++ {
		p := d.bank.Power(i)
		total += p
		if p > peakPower {
			peakPower = p
			peakIdx = i
		}
	}
	// Matches ctcssDetector.hpp's analyze(): the mean is taken over every
	// filter in the bank, the peak bin included, not just the others.
	meanPower := total / float64(n)

	res := Result{
		ToneIndex:   -1,
		Power:       peakPower,
		MeanPower:   meanPower,
		BlockFilled: true,
	}
	if meanPower > 0 && peakPower/meanPower > Threshold {
		res.ToneIndex = peakIdx
		res.OverThresh = true
	}
	return res
}

// Tone returns the frequency in Hz for a detected tone index, or 0 if the
// index is out of range.
func Tone(index int) float64 {
	if index < 0 || index >= NumTones {
		return 0
	}
	return StandardTones[index]
}
