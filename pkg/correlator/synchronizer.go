package correlator

// Sign reports which syncword a synchroniser peak corresponds to.
type Sign int8

const (
	// None indicates no peak has been emitted this update.
	None Sign = 0
	// Stream indicates a positive correlation peak (stream syncword).
	Stream Sign = 1
	// LSF indicates a negative correlation peak (LSF syncword, whose
	// symbols are the negation of the stream syncword's).
	LSF Sign = -1
)

// Synchronizer finds the best sampling phase for a baseband stream given a
// syncword, using the peak-triggered scoreboard state machine of spec.md
// §4.3.
type Synchronizer struct {
	syncword []int8

	scoreboard []int32
	triggered  bool
	sampIndex  int
}

// NewSynchronizer creates a Synchronizer targeting the given syncword
// symbols, with a scoreboard sized to the oversampling factor (one slot per
// sub-sample phase).
func NewSynchronizer(syncword []int8, samplesPerSymbol int) *Synchronizer {
	return &Synchronizer{
		syncword:   syncword,
		scoreboard: make([]int32, samplesPerSymbol),
	}
}

// Update performs one synchroniser step: it convolves the correlator against
// the target syncword, compares the result to the threshold derived from
// posTh/negTh, and returns a non-zero Sign on the falling edge of a
// detection burst (when the previously-triggered state returns below
// threshold).
func (s *Synchronizer) Update(c *Correlator, posTh, negTh int32) Sign {
	corr := c.Convolve(s.syncword)
	trigger := corr > posTh || corr < negTh

	if trigger {
		if !s.triggered {
			for i := range s.scoreboard {
				s.scoreboard[i] = 0
			}
			s.triggered = true
		}
		s.scoreboard[c.PhaseIndex()] = corr
		return None
	}

	if !s.triggered {
		return None
	}

	s.triggered = false
	s.sampIndex = 0

	peak := corr
	for i, v := range s.scoreboard {
		if abs32(v) > abs32(peak) {
			peak = v
			s.sampIndex = i
		}
	}

	if peak >= 0 {
		return Stream
	}
	return LSF
}

// SamplingIndex returns the optimal sub-sample phase found by the most
// recent peak. Meaningful only immediately after Update returns a non-zero
// Sign.
func (s *Synchronizer) SamplingIndex() int { return s.sampIndex }

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
