// Package padio contains the device I/O providers that feed raw RumblePad
// reports into a pad.Controller: the Linux hidraw reader and a portable
// replay reader for captured report logs.
package padio

import (
	"context"
	"errors"
)

// Provider feeds reports into a Sink until its input is exhausted or the
// context is cancelled.
type Provider interface {
	Run(ctx context.Context, sink Sink) error
}

// Sink is the event entry point a provider delivers into. *pad.Controller
// implements it. Providers must deliver one event at a time and pair every
// DeviceMatched with a DeviceRemoved.
type Sink interface {
	DeviceMatched()
	DeviceRemoved()
	HandleReport(data []byte) error
}

// ErrUnsupported is returned by providers that are not available on the
// current platform.
var ErrUnsupported = errors.New("padio: not supported on this platform")
