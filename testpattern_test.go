package ndicast

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestPatternHostPlaneLayout(t *testing.T) {
	tests := []struct {
		format  PixelFormat
		planes  int
		sizes   []int
		strides []int
	}{
		{PixelFormatI420, 3, []int{64 * 32, 32 * 16, 32 * 16}, []int{64, 32, 32}},
		{PixelFormatNV12, 2, []int{64 * 32, 64 * 16}, []int{64, 64}},
		{PixelFormatI444, 3, []int{64 * 32, 64 * 32, 64 * 32}, []int{64, 64, 64}},
		{PixelFormatRGBA, 1, []int{64 * 32 * 4}, []int{64 * 4}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			h := NewPatternHost(PatternConfig{Width: 64, Height: 32, Format: tt.format})
			frame := h.VideoFrameAt(0)

			if len(frame.Data) != tt.planes {
				t.Fatalf("planes = %d, want %d", len(frame.Data), tt.planes)
			}
			for i := range frame.Data {
				if len(frame.Data[i]) != tt.sizes[i] {
					t.Errorf("plane %d size = %d, want %d", i, len(frame.Data[i]), tt.sizes[i])
				}
				if frame.Stride[i] != tt.strides[i] {
					t.Errorf("plane %d stride = %d, want %d", i, frame.Stride[i], tt.strides[i])
				}
			}
		})
	}
}

func TestPatternHostNV12AndI420Agree(t *testing.T) {
	// Both layouts hold the same logical bar colors, so converting each to
	// UYVY must give identical bytes.
	nv12 := NewPatternHost(PatternConfig{Width: 64, Height: 32, Format: PixelFormatNV12})
	i420 := NewPatternHost(PatternConfig{Width: 64, Height: 32, Format: PixelFormatI420})

	a := nv12.VideoFrameAt(0)
	b := i420.VideoFrameAt(0)

	dstA := make([]byte, 32*UYVYStride(64))
	dstB := make([]byte, 32*UYVYStride(64))
	convertNV12ToUYVY(a.Data, a.Stride, 0, 32, dstA, UYVYStride(64))
	convertI420ToUYVY(b.Data, b.Stride, 0, 32, dstB, UYVYStride(64))

	if !bytes.Equal(dstA, dstB) {
		t.Error("NV12 and I420 bar patterns convert to different UYVY output")
	}
}

func TestPatternHostAudioTone(t *testing.T) {
	h := NewPatternHost(PatternConfig{SampleRate: 48000, Channels: 2, FPS: 30})

	frame := h.AudioFrameAt(0, 1600)
	if len(frame.Data) != 2 {
		t.Fatalf("channels = %d, want 2", len(frame.Data))
	}
	if frame.Samples != 1600 {
		t.Errorf("samples = %d, want 1600", frame.Samples)
	}
	// Both channels carry the same tone.
	if !bytes.Equal(frame.Data[0][:1600*4], frame.Data[1][:1600*4]) {
		t.Error("channel planes differ")
	}
	// A sine at 440 Hz must not be silence.
	silent := true
	for _, b := range frame.Data[0][:1600*4] {
		if b != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Error("tone is silent")
	}
}

func TestPatternHostDrivesOutput(t *testing.T) {
	host := NewPatternHost(PatternConfig{Width: 64, Height: 32, FPS: 60, Format: PixelFormatI420})
	fs := &fakeSender{}
	o, err := NewOutput(OutputConfig{
		Host:   host,
		Sender: func(SenderConfig) (Sender, error) { return fs, nil },
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}

	if err := o.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !host.Capturing() {
		t.Fatal("host not capturing after Start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		host.Run(ctx, o)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if fs.videoCount() >= 3 && fs.audioCount() >= 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if fs.videoCount() < 3 {
		t.Errorf("video packets = %d, want >= 3", fs.videoCount())
	}
	if fs.audioCount() < 3 {
		t.Errorf("audio packets = %d, want >= 3", fs.audioCount())
	}

	if err := o.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if host.Capturing() {
		t.Error("host still capturing after Stop")
	}
	if got := o.pool.outstanding.Load(); got != 0 {
		t.Errorf("outstanding buffers after Stop = %d, want 0", got)
	}
}
