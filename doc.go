// Package ndicast streams captured audio/video frames from a host media
// application to the network over NDI, via the vendor's runtime library.
//
// Key pieces include:
//   - Output: the session orchestrator a host drives through its raw
//     video/audio callbacks
//   - Planar-YUV to packed-UYVY converters for 4:2:0 and 4:4:4 sources
//   - A bounded frame queue and a pacing loop that releases frames at the
//     source frame rate
//   - Sender: the injected slice of the NDI SDK, with a purego-backed
//     production implementation
//   - PatternHost: a synthetic color-bar/tone host for demos and tests
//
// # Architecture
//
//	host raw video -> convert/copy -> drift compensation -> frame queue -> send loop -> Sender
//	host raw audio -> pack channels -> Sender (synchronous, unpaced)
//
// Audio is never queued; only its last timestamp is retained, and video
// pacing tracks it by inserting filler packets or dropping queued frames.
//
// # Native Library
//
// The production sender loads the NDI runtime (libndi) at first use via
// purego (CGO_ENABLED=0). The search honors the official NDI_RUNTIME_DIR_*
// environment variables, then standard library directories. Hosts and tests
// that do not want the runtime inject their own SenderFactory.
package ndicast
