// Package sim provides software stand-ins for the ADC/DAC/DMA hardware
// that the audio package's streams otherwise expect an external
// collaborator to drive, so the M17 pipeline can run and be tested without
// real hardware.
//
// Grounded on the teacher's channel-driven worker idiom (goroutine reading
// from an io.Reader and feeding a channel at a fixed pace), adapted here to
// pace samples over time instead of to a remote connection.
package sim

import (
	"io"
	"time"

	"github.com/openrtx/m17modem/pkg/audio"
)

// ADC reads PCM samples from an io.Reader (e.g. a WAV body, or a test
// fixture) and pushes them into an audio.Stream at a fixed sample rate,
// simulating a real analog-to-digital converter's DMA cadence.
type ADC struct {
	r          io.Reader
	stream     *audio.Stream
	sampleRate int
	blockSize  int
	stop       chan struct{}
}

// NewADC creates an ADC pushing blockSize-sample blocks into stream, read
// from r, paced at sampleRate samples/second.
func NewADC(r io.Reader, stream *audio.Stream, sampleRate, blockSize int) *ADC {
	return &ADC{r: r, stream: stream, sampleRate: sampleRate, blockSize: blockSize, stop: make(chan struct{})}
}

// Run pushes blocks until r is exhausted, the stream is closed, or Stop is
// called. It's meant to run in its own goroutine.
func (a *ADC) Run() error {
	period := time.Second * time.Duration(a.blockSize) / time.Duration(a.sampleRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	buf := make([]byte, a.blockSize*2)
	for {
		select {
		case <-a.stop:
			return nil
		case <-ticker.C:
			n, err := io.ReadFull(a.r, buf)
			if n == 0 {
				return err
			}
			block := bytesToSamples(buf[:n])
			if len(block) < a.blockSize {
				padded := make([]int16, a.blockSize)
				copy(padded, block)
				block = padded
			}
			if pushErr := a.stream.Push(block); pushErr != nil {
				return pushErr
			}
			if err != nil {
				return err
			}
		}
	}
}

// Stop halts a running ADC.
func (a *ADC) Stop() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
}

func bytesToSamples(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(b[2*i]) | int16(b[2*i+1])<<8
	}
	return out
}

// DAC pulls filled blocks from an audio.Stream and writes them to an
// io.Writer, simulating a digital-to-analog converter draining the
// hardware's output buffer.
type DAC struct {
	w      io.Writer
	stream *audio.Stream
	stop   chan struct{}
}

// NewDAC creates a DAC draining stream into w.
func NewDAC(w io.Writer, stream *audio.Stream) *DAC {
	return &DAC{w: w, stream: stream, stop: make(chan struct{})}
}

// Run drains blocks from the stream and writes them until the stream
// closes or Stop is called.
func (d *DAC) Run() error {
	for {
		select {
		case <-d.stop:
			return nil
		default:
		}

		block, err := d.stream.GetData()
		if err != nil {
			return err
		}
		if _, werr := d.w.Write(samplesToBytes(block)); werr != nil {
			return werr
		}
	}
}

// Stop halts a running DAC.
func (d *DAC) Stop() {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}
}

func samplesToBytes(s []int16) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}
