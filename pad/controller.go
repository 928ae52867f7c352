package pad

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrReportSize is returned when a report payload is not exactly ReportSize
// bytes. That only happens when the delivering provider breaks its contract.
var ErrReportSize = errors.New("pad: report must be exactly 8 bytes")

// Handlers is the observer capability set. Every field is optional; nil
// fields are skipped. The controller holds at most one Handlers value and
// calls it synchronously from whatever goroutine delivers device events, so
// handlers must not block.
type Handlers struct {
	Connected    func()
	Disconnected func()
	LeftStick    func(x, y int8)
	RightStick   func(x, y int8)
	Button       func(n int, pressed bool)
	DPad         func(up, right, down, left bool)
	Rumble       func(on bool)
	Mode         func(on bool)
}

// FanIn builds a Handlers value that forwards every notification to a single
// event sink. Useful when the consumer wants the stream of Events rather
// than per-group callbacks.
func FanIn(fn func(Event)) Handlers {
	return Handlers{
		Connected:    func() { fn(Event{Kind: KindConnected}) },
		Disconnected: func() { fn(Event{Kind: KindDisconnected}) },
		LeftStick:    func(x, y int8) { fn(Event{Kind: KindLeftStick, X: x, Y: y}) },
		RightStick:   func(x, y int8) { fn(Event{Kind: KindRightStick, X: x, Y: y}) },
		Button: func(n int, pressed bool) {
			fn(Event{Kind: KindButton, Button: uint8(n), Pressed: pressed})
		},
		DPad: func(up, right, down, left bool) {
			var flags uint8
			if up {
				flags |= DPadUp
			}
			if right {
				flags |= DPadRight
			}
			if down {
				flags |= DPadDown
			}
			if left {
				flags |= DPadLeft
			}
			fn(Event{Kind: KindDPad, DPad: flags})
		},
		Rumble: func(on bool) { fn(Event{Kind: KindRumble, Pressed: on}) },
		Mode:   func(on bool) { fn(Event{Kind: KindMode, Pressed: on}) },
	}
}

// Controller owns the connection state and the last decoded snapshot for one
// RumblePad. Providers feed it DeviceMatched/DeviceRemoved/HandleReport, one
// event at a time; the controller diffs, notifies, then replaces its state.
//
// Notifications fire before the state update is applied, so an observer that
// reads back State() mid-callback still sees the pre-event value.
type Controller struct {
	logger *slog.Logger

	mu        sync.Mutex
	connected bool
	current   Snapshot
	observer  Handlers
}

// NewController returns a disconnected controller.
// A nil logger falls back to slog.Default().
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{logger: logger}
}

// SetObserver installs the single observer slot, replacing any previous one.
// The controller never retains anything of the observer beyond the Handlers
// value itself.
func (c *Controller) SetObserver(h Handlers) {
	c.mu.Lock()
	c.observer = h
	c.mu.Unlock()
}

// Connected reports whether a device is currently attached.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// State returns the current snapshot and whether a device is attached.
// While disconnected the snapshot is the neutral zero value.
func (c *Controller) State() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.connected
}

// DeviceMatched transitions Disconnected -> Connected with a neutral
// snapshot and notifies the observer. A duplicate match while already
// connected is tolerated: it re-notifies and resets to neutral, since the
// provider pairs match/removal and an unpaired match means we missed the
// removal.
func (c *Controller) DeviceMatched() {
	c.mu.Lock()
	if c.connected {
		c.logger.Warn("device matched while already connected, resetting")
	}
	h := c.observer
	c.mu.Unlock()

	if h.Connected != nil {
		h.Connected()
	}

	c.mu.Lock()
	c.connected = true
	c.current = Snapshot{}
	c.mu.Unlock()
	c.logger.Debug("pad connected")
}

// DeviceRemoved transitions Connected -> Disconnected, discarding the held
// snapshot. While already disconnected it is a no-op.
func (c *Controller) DeviceRemoved() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	h := c.observer
	c.mu.Unlock()

	if h.Disconnected != nil {
		h.Disconnected()
	}

	c.mu.Lock()
	c.connected = false
	c.current = Snapshot{}
	c.mu.Unlock()
	c.logger.Debug("pad disconnected")
}

// HandleReport decodes a raw report, notifies the observer about every field
// group that changed since the held snapshot, then replaces the snapshot
// wholesale. A report while disconnected is dropped silently (stale delivery
// from the provider). A payload that is not exactly ReportSize bytes returns
// ErrReportSize.
func (c *Controller) HandleReport(data []byte) error {
	if len(data) != ReportSize {
		return ErrReportSize
	}
	var report [ReportSize]byte
	copy(report[:], data)

	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	old := c.current
	h := c.observer
	c.mu.Unlock()

	cur := Decode(report)
	for _, ev := range Diff(old, cur) {
		c.notify(h, ev, cur)
	}

	c.mu.Lock()
	// Still replace only if a removal did not race in between; the snapshot
	// of a disconnected controller stays neutral.
	if c.connected {
		c.current = cur
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) notify(h Handlers, ev Event, cur Snapshot) {
	switch ev.Kind {
	case KindLeftStick:
		if h.LeftStick != nil {
			h.LeftStick(ev.X, ev.Y)
		}
	case KindRightStick:
		if h.RightStick != nil {
			h.RightStick(ev.X, ev.Y)
		}
	case KindButton:
		if h.Button != nil {
			h.Button(int(ev.Button), ev.Pressed)
		}
	case KindDPad:
		if h.DPad != nil {
			h.DPad(cur.Up(), cur.Right(), cur.Down(), cur.Left())
		}
	case KindRumble:
		if h.Rumble != nil {
			h.Rumble(ev.Pressed)
		}
	case KindMode:
		if h.Mode != nil {
			h.Mode(ev.Pressed)
		}
	}
}
