package ndicast

import (
	"context"
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"
)

// PatternConfig configures a synthetic pattern host.
type PatternConfig struct {
	Width      int         // Frame width (default: 1280)
	Height     int         // Frame height (default: 720)
	FPS        int         // Frames per second (default: 30)
	Format     PixelFormat // NV12, I420, I444, or RGBA (default: I420)
	SampleRate int         // Audio sample rate (default: 48000)
	Channels   int         // Audio channels (default: 2)
	ToneHz     float64     // Tone frequency (default: 440)
	Amplitude  float64     // Tone amplitude 0.0-1.0 (default: 0.5)
}

// DefaultPatternConfig returns a default pattern configuration.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		Width:      1280,
		Height:     720,
		FPS:        30,
		Format:     PixelFormatI420,
		SampleRate: 48000,
		Channels:   2,
		ToneHz:     440.0, // A4
		Amplitude:  0.5,
	}
}

// PatternHost is a self-contained Host that synthesizes color-bar video and
// a sine tone, for demos and tests that need a capture source without a
// real media application behind it.
type PatternHost struct {
	cfg PatternConfig

	// Pre-generated video planes in cfg.Format
	planes  [][]byte
	strides []int

	// Reusable audio planes
	audioPlanes [][]byte
	phase       float64

	capturing  atomic.Bool
	frameCount uint64
}

// Approximate BT.601 color bar values, full-range Y'CbCr.
var barsYUV = [8][3]byte{
	{235, 128, 128}, // white
	{210, 16, 146},  // yellow
	{170, 166, 16},  // cyan
	{145, 54, 34},   // green
	{106, 202, 222}, // magenta
	{81, 90, 240},   // red
	{41, 240, 110},  // blue
	{16, 128, 128},  // black
}

var barsRGB = [8][3]byte{
	{255, 255, 255},
	{255, 255, 0},
	{0, 255, 255},
	{0, 255, 0},
	{255, 0, 255},
	{255, 0, 0},
	{0, 0, 255},
	{0, 0, 0},
}

// NewPatternHost creates a pattern host, applying defaults for zero fields.
func NewPatternHost(cfg PatternConfig) *PatternHost {
	def := DefaultPatternConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = def.Channels
	}
	if cfg.ToneHz <= 0 {
		cfg.ToneHz = def.ToneHz
	}
	if cfg.Amplitude <= 0 {
		cfg.Amplitude = def.Amplitude
	}

	h := &PatternHost{cfg: cfg}
	h.generateBars()

	h.audioPlanes = make([][]byte, cfg.Channels)
	for i := range h.audioPlanes {
		h.audioPlanes[i] = make([]byte, (cfg.SampleRate/cfg.FPS)*4)
	}
	return h
}

// VideoInfo implements Host.
func (h *PatternHost) VideoInfo() VideoInfo {
	return VideoInfo{
		Width:  h.cfg.Width,
		Height: h.cfg.Height,
		Format: h.cfg.Format,
		FPSNum: h.cfg.FPS,
		FPSDen: 1,
	}
}

// AudioInfo implements Host.
func (h *PatternHost) AudioInfo() AudioInfo {
	return AudioInfo{SampleRate: h.cfg.SampleRate, Channels: h.cfg.Channels}
}

// BeginCapture implements Host. The pattern host always accepts.
func (h *PatternHost) BeginCapture() bool {
	h.capturing.Store(true)
	return true
}

// EndCapture implements Host.
func (h *PatternHost) EndCapture() {
	h.capturing.Store(false)
}

// Capturing reports whether a session currently holds the capture handshake.
func (h *PatternHost) Capturing() bool {
	return h.capturing.Load()
}

// VideoFrameAt returns the color-bar frame stamped with the given capture
// time. The plane memory is reused across calls, mirroring host-owned
// callback memory.
func (h *PatternHost) VideoFrameAt(timestamp int64) *VideoFrame {
	return &VideoFrame{Data: h.planes, Stride: h.strides, Timestamp: timestamp}
}

// AudioFrameAt fills the reusable planes with the next stretch of the tone
// and returns them stamped with the given capture time.
func (h *PatternHost) AudioFrameAt(timestamp int64, samples int) *AudioFrame {
	step := 2 * math.Pi * h.cfg.ToneHz / float64(h.cfg.SampleRate)
	for i := 0; i < samples; i++ {
		sample := float32(math.Sin(h.phase) * h.cfg.Amplitude)
		bits := math.Float32bits(sample)
		for _, plane := range h.audioPlanes {
			binary.LittleEndian.PutUint32(plane[i*4:], bits)
		}
		h.phase += step
	}
	if h.phase > 2*math.Pi {
		h.phase -= 2 * math.Pi * math.Floor(h.phase/(2*math.Pi))
	}

	return &AudioFrame{Data: h.audioPlanes, Samples: samples, Timestamp: timestamp}
}

// Run drives the output's raw callbacks at the configured frame rate until
// the context is cancelled. Each tick delivers one video frame and the
// matching slice of audio.
func (h *PatternHost) Run(ctx context.Context, out *Output) error {
	frameDuration := time.Second / time.Duration(h.cfg.FPS)
	samplesPerFrame := h.cfg.SampleRate / h.cfg.FPS
	start := time.Now()

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !h.capturing.Load() {
				continue
			}
			ts := time.Since(start).Nanoseconds()
			out.RawVideo(h.VideoFrameAt(ts))
			out.RawAudio(h.AudioFrameAt(ts, samplesPerFrame))
			h.frameCount++
		}
	}
}

func (h *PatternHost) generateBars() {
	w, hgt := h.cfg.Width, h.cfg.Height

	switch h.cfg.Format {
	case PixelFormatI420:
		h.planes = [][]byte{
			make([]byte, w*hgt),
			make([]byte, (w/2)*(hgt/2)),
			make([]byte, (w/2)*(hgt/2)),
		}
		h.strides = []int{w, w / 2, w / 2}
		h.fillPlanar(w/2, hgt/2)

	case PixelFormatNV12:
		h.planes = [][]byte{
			make([]byte, w*hgt),
			make([]byte, w*(hgt/2)),
		}
		h.strides = []int{w, w}
		h.fillNV12()

	case PixelFormatI444:
		h.planes = [][]byte{
			make([]byte, w*hgt),
			make([]byte, w*hgt),
			make([]byte, w*hgt),
		}
		h.strides = []int{w, w, w}
		h.fillPlanar(w, hgt)

	default: // RGBA and friends
		h.planes = [][]byte{make([]byte, w*hgt*4)}
		h.strides = []int{w * 4}
		h.fillRGBA()
	}
}

// fillPlanar writes the luma plane at full resolution and both chroma
// planes at the given chroma dimensions.
func (h *PatternHost) fillPlanar(chromaW, chromaH int) {
	w, hgt := h.cfg.Width, h.cfg.Height

	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			h.planes[0][y*w+x] = barsYUV[x*8/w][0]
		}
	}
	for y := 0; y < chromaH; y++ {
		for x := 0; x < chromaW; x++ {
			bar := barsYUV[x*8/chromaW]
			h.planes[1][y*chromaW+x] = bar[1]
			h.planes[2][y*chromaW+x] = bar[2]
		}
	}
}

func (h *PatternHost) fillNV12() {
	w, hgt := h.cfg.Width, h.cfg.Height

	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			h.planes[0][y*w+x] = barsYUV[x*8/w][0]
		}
	}
	for y := 0; y < hgt/2; y++ {
		for x := 0; x < w/2; x++ {
			bar := barsYUV[x*16/w]
			h.planes[1][y*w+x*2] = bar[1]
			h.planes[1][y*w+x*2+1] = bar[2]
		}
	}
}

func (h *PatternHost) fillRGBA() {
	w, hgt := h.cfg.Width, h.cfg.Height

	for y := 0; y < hgt; y++ {
		row := h.planes[0][y*w*4:]
		for x := 0; x < w; x++ {
			bar := barsRGB[x*8/w]
			row[x*4] = bar[0]
			row[x*4+1] = bar[1]
			row[x*4+2] = bar[2]
			row[x*4+3] = 255
		}
	}
}
