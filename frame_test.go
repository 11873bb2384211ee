package ndicast

import (
	"testing"
)

func TestPixelFormat_String(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   string
	}{
		{PixelFormatNV12, "NV12"},
		{PixelFormatI420, "I420"},
		{PixelFormatI444, "I444"},
		{PixelFormatUYVY, "UYVY"},
		{PixelFormatRGBA, "RGBA"},
		{PixelFormatBGRA, "BGRA"},
		{PixelFormatBGRX, "BGRX"},
		{PixelFormat(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("PixelFormat.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelFormat_PlaneCount(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   int
	}{
		{PixelFormatNV12, 2},
		{PixelFormatI420, 3},
		{PixelFormatI444, 3},
		{PixelFormatUYVY, 1},
		{PixelFormatRGBA, 1},
		{PixelFormatBGRA, 1},
		{PixelFormatBGRX, 1},
		{PixelFormat(99), 0},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.PlaneCount(); got != tt.want {
				t.Errorf("PixelFormat.PlaneCount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUYVYStride(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1920, 3840},
		{1280, 2560},
		{640, 1280},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			if got := UYVYStride(tt.width); got != tt.want {
				t.Errorf("UYVYStride(%d) = %v, want %v", tt.width, got, tt.want)
			}
		})
	}
}

func TestFourCC_String(t *testing.T) {
	tests := []struct {
		fourCC FourCC
		want   string
	}{
		{FourCCUYVY, "UYVY"},
		{FourCCRGBA, "RGBA"},
		{FourCCBGRA, "BGRA"},
		{FourCCBGRX, "BGRX"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.fourCC.String(); got != tt.want {
				t.Errorf("FourCC.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
