//go:build darwin || linux

// NDI runtime binding via purego. The shared library is located at first
// use, loaded once per process, and exposed through the Sender interface so
// nothing else in the package touches the function table directly.

package ndicast

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	ndiOnce    sync.Once
	ndiHandle  uintptr
	ndiInitErr error
)

// NDI function pointers
var (
	ndiInitialize      func() bool
	ndiDestroy         func()
	ndiVersion         func() uintptr
	ndiSendCreate      func(desc uintptr) uintptr
	ndiSendDestroy     func(inst uintptr)
	ndiSendSendVideoV2 func(inst uintptr, frame uintptr)
	ndiSendSendAudioV2 func(inst uintptr, frame uintptr)
)

// Struct layouts mirroring Processing.NDI.Lib.h on 64-bit platforms.
// Padding is explicit because the int64/pointer members are 8-aligned.

type ndiSendCreateT struct {
	pNDIName   uintptr // const char*
	pGroups    uintptr // const char*, 0 for the default group
	clockVideo bool
	clockAudio bool
	_          [6]byte
}

type ndiVideoFrameV2T struct {
	xres               int32
	yres               int32
	fourCC             uint32
	frameRateN         int32
	frameRateD         int32
	pictureAspectRatio float32
	frameFormatType    int32
	_                  [4]byte
	timecode           int64
	pData              uintptr
	lineStrideInBytes  int32
	_                  [4]byte
	pMetadata          uintptr
	timestamp          int64
}

type ndiAudioFrameV2T struct {
	sampleRate           int32
	noChannels           int32
	noSamples            int32
	_                    [4]byte
	timecode             int64
	pData                uintptr
	channelStrideInBytes int32
	_                    [4]byte
	pMetadata            uintptr
	timestamp            int64
}

func loadNDI() error {
	ndiOnce.Do(func() {
		ndiInitErr = loadNDILib()
	})
	return ndiInitErr
}

func loadNDILib() error {
	var result *multierror.Error
	for _, path := range ndiLibPaths() {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		ndiHandle = handle
		loadNDISymbols()
		if !ndiInitialize() {
			purego.Dlclose(handle)
			return errors.New("NDI runtime refused to initialize (unsupported CPU?)")
		}
		return nil
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "failed to load the NDI runtime")
	}
	return errors.New("NDI runtime not found in any standard location")
}

func ndiLibPaths() []string {
	libNames := []string{"libndi.so.6", "libndi.so.5", "libndi.so.4", "libndi.so"}
	if runtime.GOOS == "darwin" {
		libNames = []string{"libndi.dylib"}
	}

	var paths []string

	// Environment variable overrides (highest priority). The official
	// runtime installers export the versioned NDI_RUNTIME_DIR_* variables.
	for _, env := range []string{"NDICAST_LIB_PATH", "NDI_RUNTIME_DIR_V6", "NDI_RUNTIME_DIR_V5", "NDI_RUNTIME_DIR_V4"} {
		if dir := os.Getenv(env); dir != "" {
			for _, name := range libNames {
				paths = append(paths, filepath.Join(dir, name))
			}
		}
	}

	// Search relative to the executable location.
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		for _, name := range libNames {
			paths = append(paths,
				filepath.Join(exeDir, name),
				filepath.Join(exeDir, "..", "lib", name),
			)
		}
	}

	// System paths (lowest priority). A bare name lets the dynamic loader
	// consult its own search path last.
	switch runtime.GOOS {
	case "darwin":
		for _, name := range libNames {
			paths = append(paths,
				filepath.Join("/usr/local/lib", name),
				filepath.Join("/opt/homebrew/lib", name),
				filepath.Join("/Library/NDI SDK for Apple/lib/macOS", name),
				name,
			)
		}
	case "linux":
		for _, name := range libNames {
			paths = append(paths,
				filepath.Join("/usr/local/lib", name),
				filepath.Join("/usr/lib", name),
				filepath.Join("/usr/lib/x86_64-linux-gnu", name),
				name,
			)
		}
	}

	return paths
}

func loadNDISymbols() {
	purego.RegisterLibFunc(&ndiInitialize, ndiHandle, "NDIlib_initialize")
	purego.RegisterLibFunc(&ndiDestroy, ndiHandle, "NDIlib_destroy")
	purego.RegisterLibFunc(&ndiVersion, ndiHandle, "NDIlib_version")
	purego.RegisterLibFunc(&ndiSendCreate, ndiHandle, "NDIlib_send_create")
	purego.RegisterLibFunc(&ndiSendDestroy, ndiHandle, "NDIlib_send_destroy")
	purego.RegisterLibFunc(&ndiSendSendVideoV2, ndiHandle, "NDIlib_send_send_video_v2")
	purego.RegisterLibFunc(&ndiSendSendAudioV2, ndiHandle, "NDIlib_send_send_audio_v2")
}

// IsNDIAvailable reports whether the NDI runtime could be loaded.
func IsNDIAvailable() bool {
	return loadNDI() == nil
}

// NDIVersion returns the loaded runtime's version string, or "" when the
// runtime is unavailable.
func NDIVersion() string {
	if loadNDI() != nil {
		return ""
	}
	return goStringFromPtr(ndiVersion())
}

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) != 0 {
		length++
		if length > 1024 { // Safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}

// cString returns s as a null-terminated byte slice for FFI use.
func cString(s string) []byte {
	return append([]byte(s), 0)
}

// ndiSender submits frames through the NDI runtime. It implements Sender.
type ndiSender struct {
	inst uintptr
}

// NewNDISender creates a sender bound to the configured stream name on the
// real NDI runtime. It is the production SenderFactory.
func NewNDISender(cfg SenderConfig) (Sender, error) {
	if err := loadNDI(); err != nil {
		return nil, err
	}

	name := cString(cfg.Name)
	desc := ndiSendCreateT{
		pNDIName:   uintptr(unsafe.Pointer(&name[0])),
		clockVideo: cfg.ClockVideo,
		clockAudio: cfg.ClockAudio,
	}
	var groups []byte
	if cfg.Groups != "" {
		groups = cString(cfg.Groups)
		desc.pGroups = uintptr(unsafe.Pointer(&groups[0]))
	}

	inst := ndiSendCreate(uintptr(unsafe.Pointer(&desc)))
	runtime.KeepAlive(name)
	runtime.KeepAlive(groups)
	if inst == 0 {
		return nil, errors.Errorf("NDI sender create failed for %q", cfg.Name)
	}
	return &ndiSender{inst: inst}, nil
}

// SendVideo submits one video frame. Best-effort: the runtime reports no
// per-frame status.
func (s *ndiSender) SendVideo(p *VideoPacket) {
	if s.inst == 0 || len(p.Data) == 0 {
		return
	}

	frame := ndiVideoFrameV2T{
		xres:               int32(p.Width),
		yres:               int32(p.Height),
		fourCC:             uint32(p.FourCC),
		frameRateN:         int32(p.FrameRateN),
		frameRateD:         int32(p.FrameRateD),
		pictureAspectRatio: p.AspectRatio,
		frameFormatType:    int32(p.FrameFormat),
		timecode:           p.Timecode,
		pData:              uintptr(unsafe.Pointer(&p.Data[0])),
		lineStrideInBytes:  int32(p.Stride),
	}
	ndiSendSendVideoV2(s.inst, uintptr(unsafe.Pointer(&frame)))
	runtime.KeepAlive(p.Data)
}

// SendAudio submits one audio frame.
func (s *ndiSender) SendAudio(p *AudioPacket) {
	if s.inst == 0 || len(p.Data) == 0 {
		return
	}

	frame := ndiAudioFrameV2T{
		sampleRate:           int32(p.SampleRate),
		noChannels:           int32(p.Channels),
		noSamples:            int32(p.Samples),
		timecode:             p.Timecode,
		pData:                uintptr(unsafe.Pointer(&p.Data[0])),
		channelStrideInBytes: int32(p.ChannelStride),
	}
	ndiSendSendAudioV2(s.inst, uintptr(unsafe.Pointer(&frame)))
	runtime.KeepAlive(p.Data)
}

// Close destroys the sender instance. The runtime itself stays loaded for
// the life of the process.
func (s *ndiSender) Close() error {
	if s.inst != 0 {
		ndiSendDestroy(s.inst)
		s.inst = 0
	}
	return nil
}
