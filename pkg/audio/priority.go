// Package audio implements the priority-arbitrated audio stream substrate
// described in spec.md §4.8: input/output managers that own exclusive
// access to ADC/DAC/DMA hardware, arbitrated by source priority and backed
// by double-buffered sample delivery.
//
// Grounded on the mutex+map ownership idiom in pkg/bridge/stream.go and
// pkg/peer/manager.go (teacher): a manager holds a lock around its single
// active holder and channel(s) used to signal suspension, rather than
// the blocking mutex/condvar pattern the OpenRTX C++ layer uses directly,
// since Go models "wait for this resource to free up" as receiving on a
// channel.
package audio

// Priority ranks which source may hold the audio path. Higher values win.
type Priority int

const (
	PriorityBeep Priority = iota
	PriorityRX
	PriorityVoicePrompt
	PriorityTX
)

// String names a Priority for logging.
func (p Priority) String() string {
	switch p {
	case PriorityBeep:
		return "beep"
	case PriorityRX:
		return "rx"
	case PriorityVoicePrompt:
		return "voice_prompt"
	case PriorityTX:
		return "tx"
	default:
		return "unknown"
	}
}
