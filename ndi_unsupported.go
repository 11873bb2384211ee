//go:build !darwin && !linux

package ndicast

import "github.com/pkg/errors"

// ErrNotSupported is returned where the NDI runtime binding is unavailable
// on the current platform.
var ErrNotSupported = errors.New("NDI runtime not supported on this platform")

// NewNDISender is unavailable on this platform; inject a custom
// SenderFactory instead.
func NewNDISender(cfg SenderConfig) (Sender, error) {
	return nil, ErrNotSupported
}

// IsNDIAvailable reports whether the NDI runtime could be loaded.
func IsNDIAvailable() bool { return false }

// NDIVersion returns the loaded runtime's version string, or "" when the
// runtime is unavailable.
func NDIVersion() string { return "" }
