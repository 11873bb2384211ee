package ndicast

import "time"

// FourCC identifies the pixel layout of an outbound video packet, using the
// sender SDK's four-character codes.
type FourCC uint32

func fourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

var (
	FourCCUYVY = fourCC('U', 'Y', 'V', 'Y')
	FourCCRGBA = fourCC('R', 'G', 'B', 'A')
	FourCCBGRA = fourCC('B', 'G', 'R', 'A')
	FourCCBGRX = fourCC('B', 'G', 'R', 'X')
)

func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// FrameFormat is the sender SDK's frame structure tag.
type FrameFormat int32

const (
	FrameFormatInterleaved FrameFormat = iota // Fielded frame, both fields interleaved
	FrameFormatProgressive                    // Progressive frame
)

// VideoPacket is one pending outbound video frame in sender wire terms.
// A nil Data marks a filler packet: a placeholder carrying only metadata,
// queued purely to advance pacing timing during drift compensation.
type VideoPacket struct {
	Width       int
	Height      int
	FrameRateN  int
	FrameRateD  int
	AspectRatio float32
	FourCC      FourCC
	FrameFormat FrameFormat
	Timecode    int64  // Presentation time in 100 ns units
	Data        []byte // Exclusively-owned payload, nil for fillers
	Stride      int    // Line stride in bytes
}

// duration returns the display time of one frame at this packet's rate.
// Each packet carries its own rate so mid-stream rate changes take effect
// immediately; a nonpositive rate falls back to a safe default rather than
// dividing by zero or making the pacing loop spin.
func (p *VideoPacket) duration() time.Duration {
	n, d := p.FrameRateN, p.FrameRateD
	if d <= 0 {
		d = 1
	}
	if n <= 0 {
		return time.Second / 30
	}
	return time.Duration(int64(time.Second) * int64(d) / int64(n))
}

// AudioPacket is one outbound audio frame in sender wire terms: planar
// 32-bit float, channels packed contiguously at ChannelStride intervals.
type AudioPacket struct {
	SampleRate    int
	Channels      int
	Samples       int // Samples per channel
	ChannelStride int // Bytes between channel planes in Data
	Data          []byte
	Timecode      int64 // Presentation time in 100 ns units
}

// SenderConfig configures a network sender instance.
type SenderConfig struct {
	Name       string // Stream name announced on the network
	Groups     string // Receiver groups, empty for the default group
	ClockVideo bool   // Let the SDK pace video (off: pacing is this module's job)
	ClockAudio bool   // Let the SDK pace audio
}

// Sender is the small surface of the network SDK this module depends on.
// Submissions are best-effort: the SDK reports no per-frame errors, so
// neither does this interface. Implementations must tolerate concurrent
// SendVideo and SendAudio calls from different goroutines.
type Sender interface {
	SendVideo(p *VideoPacket)
	SendAudio(p *AudioPacket)
	Close() error
}

// SenderFactory creates a Sender for a started session. Injecting the
// factory keeps the SDK function table out of global state and lets tests
// substitute a fake sender.
type SenderFactory func(cfg SenderConfig) (Sender, error)
