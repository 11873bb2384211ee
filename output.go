package ndicast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// maxBufferedFrames caps the pending video queue. The capture callback
// drops new frames once this many are waiting.
const maxBufferedFrames = 60

var (
	// ErrAlreadyStarted is returned by Start on a running session.
	ErrAlreadyStarted = errors.New("output already started")

	// ErrUnsupportedFormat is returned by Start when the host's pixel format
	// has neither a conversion nor a passthrough path.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrCaptureRefused is returned by Start when the host declines to begin
	// data capture.
	ErrCaptureRefused = errors.New("host refused to begin data capture")
)

// OutputStats counts what happened to frames since the output was created.
type OutputStats struct {
	FramesQueued    uint64 // Video frames accepted into the queue
	FramesDropped   uint64 // Video frames discarded at the queue cap
	FillersInserted uint64 // Filler packets queued by drift compensation
	DriftDropped    uint64 // Queued frames dropped by drift compensation
	VideoSent       uint64 // Video frames submitted to the sender
	AudioSent       uint64 // Audio frames submitted to the sender
}

// OutputConfig configures a new Output.
type OutputConfig struct {
	Host     Host               // Required: format queries and capture handshake
	Sender   SenderFactory      // Sender constructor; nil uses the NDI runtime
	Settings Settings           // Initial configuration
	Logger   logrus.FieldLogger // nil uses the logrus standard logger
}

// Output streams the host's raw audio/video frames to the network.
//
// Video frames are converted (or passed through), copied into owned
// buffers, and queued; a dedicated send loop releases them to the sender
// at the source frame rate. Audio bypasses the queue entirely and is
// submitted synchronously on arrival; only its timestamp is retained, to
// steer video drift compensation.
type Output struct {
	host      Host
	newSender SenderFactory
	log       logrus.FieldLogger
	pool      bufferPool

	mu           sync.Mutex // guards settings and lifecycle transitions
	streamName   string
	asyncSending bool

	// Negotiated at Start, fixed while started.
	videoInfo  VideoInfo
	audioInfo  AudioInfo
	fourCC     FourCC
	convBuf    []byte // UYVY conversion scratch, nil for passthrough formats
	convStride int

	started atomic.Bool
	sender  Sender
	queue   *frameQueue
	stop    chan struct{}
	wg      sync.WaitGroup

	lastAudioTimestamp atomic.Int64 // nanoseconds, from the last RawAudio

	stats   OutputStats
	statsMu sync.Mutex
}

// NewOutput creates an Output bound to the given host.
func NewOutput(cfg OutputConfig) (*Output, error) {
	if cfg.Host == nil {
		return nil, errors.New("host is required")
	}
	if cfg.Sender == nil {
		cfg.Sender = NewNDISender
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	o := &Output{
		host:      cfg.Host,
		newSender: cfg.Sender,
		log:       cfg.Logger,
	}
	o.Update(cfg.Settings)
	return o, nil
}

// Update applies new settings. Changes take effect on the next Start; a
// running session is not reconfigured.
func (o *Output) Update(s Settings) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.streamName = s.StreamName
	if o.streamName == "" {
		o.streamName = "ndicast-" + uuid.NewString()[:8]
	}
	o.asyncSending = s.AsyncSending
}

// Start negotiates formats with the host, creates the sender, and spawns
// the send loop. On any failure the session remains not started.
func (o *Output) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started.Load() {
		return ErrAlreadyStarted
	}

	// Defensive cleanup of anything a previous session left behind.
	if o.sender != nil {
		_ = o.sender.Close()
		o.sender = nil
	}
	o.convBuf = nil

	o.videoInfo = o.host.VideoInfo()
	o.audioInfo = o.host.AudioInfo()

	if err := o.selectFormat(); err != nil {
		return err
	}

	sender, err := o.newSender(SenderConfig{Name: o.streamName})
	if err != nil {
		return errors.Wrap(err, "create sender")
	}
	if !o.host.BeginCapture() {
		_ = sender.Close()
		return ErrCaptureRefused
	}

	o.sender = sender
	o.queue = newFrameQueue(maxBufferedFrames)
	o.stop = make(chan struct{})
	o.started.Store(true)

	o.wg.Add(1)
	go o.sendLoop()

	log := o.log.WithField("stream", o.streamName)
	if o.asyncSending {
		log.Info("asynchronous video sending enabled")
	} else {
		log.Info("asynchronous video sending disabled")
	}
	return nil
}

// selectFormat picks the outbound FourCC for the host's pixel format.
// Planar YUV sources convert to packed UYVY and get a scratch buffer;
// packed RGB variants pass through untouched.
func (o *Output) selectFormat() error {
	switch o.videoInfo.Format {
	case PixelFormatNV12, PixelFormatI420, PixelFormatI444:
		o.fourCC = FourCCUYVY
		o.convStride = UYVYStride(o.videoInfo.Width)
		o.convBuf = make([]byte, o.videoInfo.Height*o.convStride*2)
	case PixelFormatRGBA:
		o.fourCC = FourCCRGBA
	case PixelFormatBGRA:
		o.fourCC = FourCCBGRA
	case PixelFormatBGRX:
		o.fourCC = FourCCBGRX
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%v", o.videoInfo.Format)
	}
	return nil
}

// Stop ends capture, joins the send loop, and releases the sender and
// conversion buffer. The loop is joined first so it can never touch a
// released sender. Safe to call on a stopped session.
func (o *Output) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started.Load() {
		return nil
	}
	o.started.Store(false)
	o.host.EndCapture()

	close(o.stop)
	o.wg.Wait()

	err := o.sender.Close()
	o.sender = nil
	o.convBuf = nil
	return errors.Wrap(err, "close sender")
}

// Close stops the session if running and releases all resources.
func (o *Output) Close() error {
	var result *multierror.Error

	if err := o.Stop(); err != nil {
		result = multierror.Append(result, err)
	}

	o.mu.Lock()
	if o.sender != nil {
		if err := o.sender.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		o.sender = nil
	}
	o.mu.Unlock()

	return result.ErrorOrNil()
}

// Stats returns a snapshot of the frame counters.
func (o *Output) Stats() OutputStats {
	o.statsMu.Lock()
	defer o.statsMu.Unlock()
	return o.stats
}

// RawVideo is the host's per-frame video callback. It converts and copies
// the frame, adjusts the queue depth against observed audio arrival, and
// queues the result for the send loop. No-op when the session is stopped;
// the frame is dropped outright when the queue is at capacity.
func (o *Output) RawVideo(frame *VideoFrame) {
	if !o.started.Load() {
		return
	}
	if o.queue.len() >= maxBufferedFrames {
		o.countDrop()
		return
	}

	vi := o.videoInfo
	pkt := &VideoPacket{
		Width:       vi.Width,
		Height:      vi.Height,
		FrameRateN:  vi.FPSNum,
		FrameRateD:  vi.FPSDen,
		AspectRatio: float32(vi.Width) / float32(vi.Height),
		FourCC:      o.fourCC,
		FrameFormat: FrameFormatProgressive,
		Timecode:    frame.Timestamp / 100,
	}

	var src []byte
	if o.fourCC == FourCCUYVY {
		switch vi.Format {
		case PixelFormatNV12:
			convertNV12ToUYVY(frame.Data, frame.Stride, 0, vi.Height, o.convBuf, o.convStride)
		case PixelFormatI420:
			convertI420ToUYVY(frame.Data, frame.Stride, 0, vi.Height, o.convBuf, o.convStride)
		case PixelFormatI444:
			convertI444ToUYVY(frame.Data, frame.Stride, 0, vi.Height, o.convBuf, o.convStride)
		}
		src = o.convBuf
		pkt.Stride = o.convStride
	} else {
		src = frame.Data[0]
		pkt.Stride = frame.Stride[0]
	}

	// The host owns the frame memory only through this callback; keep an
	// owned copy for the send loop.
	n := pkt.Stride * vi.Height
	payload := o.pool.get(n)
	copy(payload, src[:n])
	pkt.Data = payload

	o.compensateDrift(frame.Timestamp, pkt)

	if o.queue.tryPush(pkt) {
		o.statsMu.Lock()
		o.stats.FramesQueued++
		o.statsMu.Unlock()
	} else {
		o.release(pkt)
		o.countDrop()
	}
}

// RawAudio is the host's per-frame audio callback. Audio is not paced:
// channel planes are packed into one owned buffer, submitted immediately,
// and only the timestamp is kept for drift comparison on later video.
func (o *Output) RawAudio(frame *AudioFrame) {
	if !o.started.Load() {
		return
	}

	channels := o.audioInfo.Channels
	stride := frame.Samples * 4 // 32-bit float samples

	data := o.pool.get(channels * stride)
	for i := 0; i < channels && i < len(frame.Data); i++ {
		copy(data[i*stride:(i+1)*stride], frame.Data[i])
	}

	o.sender.SendAudio(&AudioPacket{
		SampleRate:    o.audioInfo.SampleRate,
		Channels:      channels,
		Samples:       frame.Samples,
		ChannelStride: stride,
		Data:          data,
		Timecode:      frame.Timestamp / 100,
	})
	o.pool.put(data)

	o.lastAudioTimestamp.Store(frame.Timestamp)
	o.statsMu.Lock()
	o.stats.AudioSent++
	o.statsMu.Unlock()
}

// compensateDrift keeps video pacing loosely synchronized to observed audio
// arrival. Audio is sent unpaced, so the queue depth is nudged toward the
// number of frame durations between this frame and the last audio
// timestamp: too deep drops the oldest queued frames, too shallow inserts
// fillers ahead of the real frame.
func (o *Output) compensateDrift(timestamp int64, pkt *VideoPacket) {
	buffering := timestamp - o.lastAudioTimestamp.Load()
	if buffering < 0 {
		buffering = 0
	}

	required := int(buffering / int64(pkt.duration()))
	current := o.queue.len()
	delta := required - current

	switch {
	case delta < 0:
		drop := min(-delta, current)
		for i := 0; i < drop; i++ {
			old, ok := o.queue.tryPop()
			if !ok {
				break
			}
			o.release(old)
			o.statsMu.Lock()
			o.stats.DriftDropped++
			o.statsMu.Unlock()
		}

	case delta > 0:
		for i := 0; i < delta; i++ {
			filler := *pkt
			filler.Data = nil
			if !o.queue.tryPush(&filler) {
				break
			}
			o.statsMu.Lock()
			o.stats.FillersInserted++
			o.statsMu.Unlock()
		}
	}
}

// sendLoop pops one packet at a time and releases it to the sender at the
// packet's own frame rate. It runs exactly while the session is started and
// drains the queue without sending on the way out.
func (o *Output) sendLoop() {
	defer o.wg.Done()

	for {
		// Stop takes priority over pending frames.
		select {
		case <-o.stop:
			o.drain()
			return
		default:
		}

		select {
		case <-o.stop:
			o.drain()
			return

		case pkt := <-o.queue.ch:
			// The deadline is taken before submission so submission
			// latency cannot accumulate into pacing drift.
			next := time.Now().Add(pkt.duration())

			if pkt.Data != nil {
				o.sender.SendVideo(pkt)
				o.release(pkt)
				o.statsMu.Lock()
				o.stats.VideoSent++
				o.statsMu.Unlock()
			}

			time.Sleep(time.Until(next))
		}
	}
}

// drain frees every packet still queued without submitting it.
func (o *Output) drain() {
	for {
		pkt, ok := o.queue.tryPop()
		if !ok {
			return
		}
		o.release(pkt)
	}
}

// release returns a packet's payload to the pool. Fillers carry none.
func (o *Output) release(pkt *VideoPacket) {
	if pkt.Data != nil {
		o.pool.put(pkt.Data)
		pkt.Data = nil
	}
}

func (o *Output) countDrop() {
	o.statsMu.Lock()
	o.stats.FramesDropped++
	o.statsMu.Unlock()
}

func init() {
	RegisterOutput(OutputDescriptor{
		ID:    "ndi_output",
		Name:  "NDI Output",
		Flags: OutputVideo | OutputAudio,
		New: func(settings Settings, host Host) (*Output, error) {
			return NewOutput(OutputConfig{Host: host, Settings: settings})
		},
	})
}
