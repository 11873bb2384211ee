package ndicast

import (
	"fmt"
	"sync"
)

// Host is the surface of the hosting media application this module consumes:
// the negotiated output formats and the data-capture handshake. The host
// invokes RawVideo/RawAudio on the Output for every captured frame; it must
// not call RawVideo concurrently from multiple goroutines.
type Host interface {
	// VideoInfo returns the current video output format.
	VideoInfo() VideoInfo

	// AudioInfo returns the current audio output format.
	AudioInfo() AudioInfo

	// BeginCapture asks the host to start delivering raw frames.
	// It reports false when the host refuses, in which case the
	// session does not start.
	BeginCapture() bool

	// EndCapture tells the host to stop delivering raw frames.
	EndCapture()
}

// Settings is the user-facing configuration of an output. Changes applied
// via Update take effect on the next Start, never on a running session.
type Settings struct {
	StreamName   string // Network stream name; empty picks a generated one
	AsyncSending bool   // Hint that video submission may return before delivery
}

// PropertyType identifies the widget kind of a configuration property.
type PropertyType int

const (
	PropertyText PropertyType = iota
	PropertyBool
)

// Property describes one entry of the output's configuration schema, for
// hosts that render a settings panel.
type Property struct {
	Name        string       // Settings key
	Label       string       // Human-readable label
	Type        PropertyType // Widget kind
	DeferUpdate bool         // Apply on next start rather than live
}

// OutputFlags describes the capabilities of an output.
type OutputFlags int

const (
	OutputVideo OutputFlags = 1 << iota // Carries video
	OutputAudio                         // Carries audio
)

// OutputDescriptor is the pluggable descriptor a host uses to discover and
// instantiate an output implementation.
type OutputDescriptor struct {
	ID    string // Stable identifier, e.g. "ndi_output"
	Name  string // Display name
	Flags OutputFlags
	New   func(settings Settings, host Host) (*Output, error)
}

// Properties returns the configuration schema for this output. All entries
// are deferred: the session has no live reconfiguration.
func (d OutputDescriptor) Properties() []Property {
	return []Property{
		{Name: "stream_name", Label: "Stream Name", Type: PropertyText, DeferUpdate: true},
		{Name: "async_sending", Label: "Asynchronous Sending", Type: PropertyBool, DeferUpdate: true},
	}
}

// outputRegistry holds registered output descriptors.
type outputRegistry struct {
	outputs map[string]OutputDescriptor
	mu      sync.RWMutex
}

var globalOutputRegistry = &outputRegistry{
	outputs: make(map[string]OutputDescriptor),
}

// RegisterOutput registers an output descriptor under its ID.
func RegisterOutput(desc OutputDescriptor) {
	globalOutputRegistry.mu.Lock()
	defer globalOutputRegistry.mu.Unlock()
	globalOutputRegistry.outputs[desc.ID] = desc
}

// CreateOutput instantiates a registered output by ID.
func CreateOutput(id string, settings Settings, host Host) (*Output, error) {
	globalOutputRegistry.mu.RLock()
	desc, ok := globalOutputRegistry.outputs[id]
	globalOutputRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("output type not available: %s", id)
	}
	return desc.New(settings, host)
}

// AvailableOutputs returns the IDs of all registered outputs.
func AvailableOutputs() []string {
	globalOutputRegistry.mu.RLock()
	defer globalOutputRegistry.mu.RUnlock()

	ids := make([]string, 0, len(globalOutputRegistry.outputs))
	for id := range globalOutputRegistry.outputs {
		ids = append(ids, id)
	}
	return ids
}
