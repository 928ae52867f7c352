package padio

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Alia5/PADLINK/pad"
)

const pollTimeout = 250 * time.Millisecond

// HIDRaw scans /dev/hidraw* for a device with the configured vendor/product
// identity and pumps its reports into a Sink. When the device disappears it
// delivers DeviceRemoved and keeps rescanning until the context is
// cancelled, so plug/unplug cycles just work.
type HIDRaw struct {
	Vendor  uint16
	Product uint16
	// Rescan is the wait between scans while no device is present.
	Rescan time.Duration
	Logger *slog.Logger
}

// NewHIDRaw returns a provider matching the RumblePad 2 identity.
func NewHIDRaw(logger *slog.Logger) *HIDRaw {
	return &HIDRaw{
		Vendor:  pad.VendorID,
		Product: pad.ProductID,
		Rescan:  time.Second,
		Logger:  logger,
	}
}

// Run blocks until ctx is cancelled, always returning ctx.Err().
func (p *HIDRaw) Run(ctx context.Context, sink Sink) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rescan := p.Rescan
	if rescan <= 0 {
		rescan = time.Second
	}

	for {
		fd, path, err := p.find()
		if err != nil {
			logger.Warn("hidraw scan failed", "error", err)
		}
		if fd < 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(rescan):
			}
			continue
		}

		logger.Info("pad attached", "path", path)
		sink.DeviceMatched()
		err = p.pump(ctx, fd, sink, logger)
		_ = unix.Close(fd)
		sink.DeviceRemoved()
		logger.Info("pad detached", "path", path)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Debug("hidraw read ended", "error", err)
		}
	}
}

// find opens the first matching hidraw node. Returns fd -1 when no device
// is present.
func (p *HIDRaw) find() (int, string, error) {
	paths, err := filepath.Glob("/dev/hidraw*")
	if err != nil {
		return -1, "", err
	}
	for _, path := range paths {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			continue
		}
		info, err := unix.IoctlHIDGetRawInfo(fd)
		if err != nil || uint16(info.Vendor) != p.Vendor || uint16(info.Product) != p.Product {
			_ = unix.Close(fd)
			continue
		}
		return fd, path, nil
	}
	return -1, "", nil
}

// pump reads reports until the device goes away or ctx is cancelled.
func (p *HIDRaw) pump(ctx context.Context, fd int, sink Sink, logger *slog.Logger) error {
	buf := make([]byte, pad.ReportSize)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fds[0].Revents = 0
		n, err := unix.Poll(fds, int(pollTimeout.Milliseconds()))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			return unix.ENODEV
		}

		n, err = unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n != pad.ReportSize {
			logger.Warn("dropping odd-sized report", "bytes", n)
			continue
		}
		if err := sink.HandleReport(buf[:n]); err != nil {
			return err
		}
	}
}
