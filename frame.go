package ndicast

// PixelFormat represents the video pixel formats delivered by the host.
type PixelFormat int

const (
	PixelFormatNV12 PixelFormat = iota // YUV 4:2:0 semi-planar (Y + interleaved UV)
	PixelFormatI420                    // YUV 4:2:0 planar (Y + U + V)
	PixelFormatI444                    // YUV 4:4:4 planar (full-resolution chroma)
	PixelFormatUYVY                    // Packed YUV 4:2:2 (U Y V Y), the sender's native layout
	PixelFormatRGBA                    // Packed RGBA, 4 bytes per pixel
	PixelFormatBGRA                    // Packed BGRA, 4 bytes per pixel
	PixelFormatBGRX                    // Packed BGRX, 4 bytes per pixel
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatI420:
		return "I420"
	case PixelFormatI444:
		return "I444"
	case PixelFormatUYVY:
		return "UYVY"
	case PixelFormatRGBA:
		return "RGBA"
	case PixelFormatBGRA:
		return "BGRA"
	case PixelFormatBGRX:
		return "BGRX"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatNV12:
		return 2 // Y, UV
	case PixelFormatI420, PixelFormatI444:
		return 3 // Y, U, V
	case PixelFormatUYVY, PixelFormatRGBA, PixelFormatBGRA, PixelFormatBGRX:
		return 1 // Packed
	default:
		return 0
	}
}

// VideoInfo describes the host's negotiated video output format.
type VideoInfo struct {
	Width  int         // Output width in pixels
	Height int         // Output height in pixels
	Format PixelFormat // Pixel format of raw frames
	FPSNum int         // Frame rate numerator
	FPSDen int         // Frame rate denominator
}

// AudioInfo describes the host's negotiated audio output format.
// Samples are 32-bit float, planar, one plane per channel.
type AudioInfo struct {
	SampleRate int // Sample rate (e.g., 48000)
	Channels   int // Number of channels
}

// VideoFrame is one raw video frame as delivered by the host's capture
// callback. The plane data is owned by the host and is only valid for the
// duration of the callback; anything kept past it must be copied.
type VideoFrame struct {
	Data      [][]byte // Plane data (1-3 planes depending on format)
	Stride    []int    // Stride for each plane in bytes
	Timestamp int64    // Capture timestamp in nanoseconds
}

// AudioFrame is one raw audio frame as delivered by the host's capture
// callback. Planar 32-bit float, one plane per channel, host-owned memory.
type AudioFrame struct {
	Data      [][]byte // One plane per channel
	Samples   int      // Samples per channel
	Timestamp int64    // Capture timestamp in nanoseconds
}

// UYVYStride returns the packed 4:2:2 row size in bytes for a given width.
func UYVYStride(width int) int {
	return width * 2
}
