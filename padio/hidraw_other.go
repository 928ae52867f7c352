//go:build !linux

package padio

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alia5/PADLINK/pad"
)

// HIDRaw is only implemented on Linux.
type HIDRaw struct {
	Vendor  uint16
	Product uint16
	Rescan  time.Duration
	Logger  *slog.Logger
}

func NewHIDRaw(logger *slog.Logger) *HIDRaw {
	return &HIDRaw{Vendor: pad.VendorID, Product: pad.ProductID, Logger: logger}
}

func (p *HIDRaw) Run(ctx context.Context, sink Sink) error {
	return ErrUnsupported
}
