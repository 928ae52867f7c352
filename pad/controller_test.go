package pad_test

import (
	"testing"

	"github.com/Alia5/PADLINK/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every notification through FanIn so tests can assert
// on exact event sequences.
type recorder struct {
	events []pad.Event
}

func (r *recorder) handlers() pad.Handlers {
	return pad.FanIn(func(ev pad.Event) { r.events = append(r.events, ev) })
}

func (r *recorder) kinds() []pad.Kind {
	kinds := make([]pad.Kind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (r *recorder) reset() { r.events = nil }

func TestLifecycle(t *testing.T) {
	rec := &recorder{}
	c := pad.NewController(nil)
	c.SetObserver(rec.handlers())

	assert.False(t, c.Connected())

	// Stale events while disconnected are dropped silently.
	c.DeviceRemoved()
	require.NoError(t, c.HandleReport(make([]byte, pad.ReportSize)))
	assert.Empty(t, rec.events)
	assert.False(t, c.Connected())

	c.DeviceMatched()
	assert.Equal(t, []pad.Kind{pad.KindConnected}, rec.kinds())
	assert.True(t, c.Connected())

	s, ok := c.State()
	assert.True(t, ok)
	assert.Equal(t, pad.Snapshot{}, s)

	rec.reset()
	c.DeviceRemoved()
	assert.Equal(t, []pad.Kind{pad.KindDisconnected}, rec.kinds())
	assert.False(t, c.Connected())
}

func TestDuplicateMatchResets(t *testing.T) {
	rec := &recorder{}
	c := pad.NewController(nil)
	c.SetObserver(rec.handlers())

	c.DeviceMatched()
	require.NoError(t, c.HandleReport([]byte{128, 128, 128, 128, 0x18, 0, 0, 0}))
	s, _ := c.State()
	assert.True(t, s.Button(1))

	rec.reset()
	c.DeviceMatched()
	assert.Equal(t, []pad.Kind{pad.KindConnected}, rec.kinds())
	s, ok := c.State()
	assert.True(t, ok)
	assert.Equal(t, pad.Snapshot{}, s, "duplicate match resets to neutral")
}

func TestReportSize(t *testing.T) {
	c := pad.NewController(nil)
	c.DeviceMatched()

	assert.ErrorIs(t, c.HandleReport(make([]byte, 7)), pad.ErrReportSize)
	assert.ErrorIs(t, c.HandleReport(make([]byte, 9)), pad.ErrReportSize)
	assert.ErrorIs(t, c.HandleReport(nil), pad.ErrReportSize)
}

// The full attach/report/detach flow: one change notification per changed
// field group, nothing on identical reports, disconnect at the end.
func TestReportFlow(t *testing.T) {
	rec := &recorder{}
	c := pad.NewController(nil)
	c.SetObserver(rec.handlers())

	c.DeviceMatched()
	rec.reset()

	// Left stick moved and button 1 pressed; hat nibble 0x08 is neutral.
	report := []byte{200, 50, 128, 128, 0x18, 0, 0, 0}
	require.NoError(t, c.HandleReport(report))
	require.Len(t, rec.events, 2)
	assert.Equal(t, pad.Event{Kind: pad.KindLeftStick, X: 72, Y: 78}, rec.events[0])
	assert.Equal(t, pad.Event{Kind: pad.KindButton, Button: 1, Pressed: true}, rec.events[1])

	// Identical bytes: no change, no notifications.
	rec.reset()
	require.NoError(t, c.HandleReport(report))
	assert.Empty(t, rec.events)

	// Button released again.
	rec.reset()
	require.NoError(t, c.HandleReport([]byte{200, 50, 128, 128, 0x08, 0, 0, 0}))
	assert.Equal(t, []pad.Event{{Kind: pad.KindButton, Button: 1}}, rec.events)

	rec.reset()
	c.DeviceRemoved()
	assert.Equal(t, []pad.Kind{pad.KindDisconnected}, rec.kinds())
	assert.False(t, c.Connected())
}

func TestHatUpCode(t *testing.T) {
	rec := &recorder{}
	c := pad.NewController(nil)
	c.SetObserver(rec.handlers())

	c.DeviceMatched()
	rec.reset()

	// Hat code 0x00 means "up", not "released".
	require.NoError(t, c.HandleReport([]byte{128, 128, 128, 128, 0x00, 0, 0, 0}))
	assert.Equal(t, []pad.Event{{Kind: pad.KindDPad, DPad: pad.DPadUp}}, rec.events)
}

func TestNotificationOrder(t *testing.T) {
	rec := &recorder{}
	c := pad.NewController(nil)
	c.SetObserver(rec.handlers())

	c.DeviceMatched()
	rec.reset()

	// Every field group changes at once.
	require.NoError(t, c.HandleReport([]byte{0, 255, 255, 0, 0xF1, 0x3F, 0x0C, 0}))

	want := []pad.Kind{
		pad.KindLeftStick, pad.KindRightStick,
		pad.KindButton, pad.KindButton, pad.KindButton, pad.KindButton, pad.KindButton,
		pad.KindButton, pad.KindButton, pad.KindButton, pad.KindButton, pad.KindButton,
		pad.KindDPad, pad.KindRumble, pad.KindMode,
	}
	assert.Equal(t, want, rec.kinds())

	// Each button notification carries its own number and flag.
	for i := 0; i < 10; i++ {
		ev := rec.events[2+i]
		assert.Equal(t, uint8(i+1), ev.Button)
		assert.True(t, ev.Pressed)
	}
	assert.Equal(t, pad.DPadUp|pad.DPadRight, rec.events[12].DPad)
}

func TestNotifyBeforeStateUpdate(t *testing.T) {
	c := pad.NewController(nil)
	var seen pad.Snapshot
	c.SetObserver(pad.Handlers{
		Button: func(n int, pressed bool) {
			seen, _ = c.State()
		},
	})

	c.DeviceMatched()
	require.NoError(t, c.HandleReport([]byte{128, 128, 128, 128, 0x18, 0, 0, 0}))

	// The observer ran before the held snapshot was replaced.
	assert.Equal(t, pad.Snapshot{}, seen)
	s, _ := c.State()
	assert.True(t, s.Button(1))
}

func TestNoObserver(t *testing.T) {
	c := pad.NewController(nil)
	c.DeviceMatched()
	require.NoError(t, c.HandleReport([]byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}))
	c.DeviceRemoved()
}
