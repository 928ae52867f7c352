package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/Alia5/PADLINK/apitypes"
	"github.com/Alia5/PADLINK/internal/server/api"
	"github.com/Alia5/PADLINK/internal/server/api/handler"
	"github.com/Alia5/PADLINK/internal/server/feed"
	"github.com/Alia5/PADLINK/pad"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, h api.HandlerFunc) string {
	t.Helper()
	req := &api.Request{Params: map[string]string{}}
	res := &api.Response{}
	require.NoError(t, h(req, res, slog.Default()))
	return res.JSON
}

func TestPing(t *testing.T) {
	var got apitypes.PingResponse
	require.NoError(t, json.Unmarshal([]byte(invoke(t, handler.Ping())), &got))
	assert.Equal(t, "padlink", got.Server)
	assert.NotEmpty(t, got.Version)
}

func TestStateDisconnected(t *testing.T) {
	ctrl := pad.NewController(nil)

	var got apitypes.StateResponse
	require.NoError(t, json.Unmarshal([]byte(invoke(t, handler.State(ctrl))), &got))
	assert.False(t, got.Connected)
	assert.Empty(t, got.Buttons)
}

func TestStateConnected(t *testing.T) {
	ctrl := pad.NewController(nil)
	ctrl.DeviceMatched()
	require.NoError(t, ctrl.HandleReport([]byte{200, 50, 128, 128, 0x18, 0x00, 0x00, 0x00}))

	var got apitypes.StateResponse
	require.NoError(t, json.Unmarshal([]byte(invoke(t, handler.State(ctrl))), &got))
	assert.True(t, got.Connected)
	assert.Equal(t, int8(72), got.LeftStick.X)
	assert.Equal(t, int8(78), got.LeftStick.Y)
	assert.Equal(t, []int{1}, got.Buttons)
}

// readFrames collects n event frames from the stream side of a pipe.
func readFrames(t *testing.T, r io.Reader, n int) []pad.Event {
	t.Helper()
	out := make([]pad.Event, 0, n)
	buf := make([]byte, pad.EventSize)
	for len(out) < n {
		_, err := io.ReadFull(r, buf)
		require.NoError(t, err)
		var ev pad.Event
		require.NoError(t, ev.UnmarshalBinary(buf))
		out = append(out, ev)
	}
	return out
}

func TestEventsCatchUpThenLive(t *testing.T) {
	ctrl := pad.NewController(nil)
	hub := feed.New()
	ctrl.SetObserver(pad.FanIn(hub.Publish))

	ctrl.DeviceMatched()
	require.NoError(t, ctrl.HandleReport([]byte{200, 50, 128, 128, 0x18, 0x00, 0x00, 0x00}))

	server, client := net.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- handler.Events(ctrl, hub, 16)(server, slog.Default())
	}()

	// Catch-up: connected plus the snapshot rendered against neutral.
	evs := readFrames(t, client, 3)
	assert.Equal(t, pad.KindConnected, evs[0].Kind)
	assert.Equal(t, pad.KindLeftStick, evs[1].Kind)
	assert.Equal(t, int8(72), evs[1].X)
	assert.Equal(t, pad.KindButton, evs[2].Kind)

	// Live: release the button.
	require.NoError(t, ctrl.HandleReport([]byte{200, 50, 128, 128, 0x08, 0x00, 0x00, 0x00}))
	evs = readFrames(t, client, 1)
	assert.Equal(t, pad.KindButton, evs[0].Kind)
	assert.False(t, evs[0].Pressed)

	// A closed client ends the handler without error.
	_ = client.Close()
	require.NoError(t, ctrl.HandleReport([]byte{128, 128, 128, 128, 0x08, 0x00, 0x00, 0x00}))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("handler did not finish after client close")
	}
}

func TestEventsNoCatchUpWhenDisconnected(t *testing.T) {
	ctrl := pad.NewController(nil)
	hub := feed.New()
	ctrl.SetObserver(pad.FanIn(hub.Publish))

	server, client := net.Pipe()
	go func() {
		_ = handler.Events(ctrl, hub, 16)(server, slog.Default())
	}()

	// Nothing is written until the pad shows up.
	ctrl.DeviceMatched()
	evs := readFrames(t, client, 1)
	assert.Equal(t, pad.KindConnected, evs[0].Kind)
	_ = client.Close()
}
