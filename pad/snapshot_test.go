package pad_test

import (
	"testing"

	"github.com/Alia5/PADLINK/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNeutral(t *testing.T) {
	s := pad.Decode([8]byte{128, 128, 128, 128, 0x08, 0, 0, 0})
	assert.Equal(t, pad.Snapshot{}, s)
}

func TestDecodeAxes(t *testing.T) {
	type testCase struct {
		name           string
		report         [8]byte
		lx, ly, rx, ry int8
	}

	cases := []testCase{
		{
			name:   "centered",
			report: [8]byte{128, 128, 128, 128, 0x08, 0, 0, 0},
		},
		{
			name:   "horizontal extremes",
			report: [8]byte{0, 128, 255, 128, 0x08, 0, 0, 0},
			lx:     -128,
			rx:     127,
		},
		{
			name:   "vertical inversion",
			report: [8]byte{128, 50, 128, 200, 0x08, 0, 0, 0},
			ly:     78,
			ry:     -72,
		},
		{
			// -(0-128) would be +128; the decoder clamps the single
			// overflowing raw value to +127.
			name:   "vertical overflow clamps",
			report: [8]byte{128, 0, 128, 255, 0x08, 0, 0, 0},
			ly:     127,
			ry:     -127,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := pad.Decode(tc.report)
			assert.Equal(t, tc.lx, s.LX, "LX")
			assert.Equal(t, tc.ly, s.LY, "LY")
			assert.Equal(t, tc.rx, s.RX, "RX")
			assert.Equal(t, tc.ry, s.RY, "RY")
		})
	}
}

func TestDecodeButtons(t *testing.T) {
	type testCase struct {
		name    string
		b4, b5  byte
		buttons uint16
	}

	cases := []testCase{
		{name: "none"},
		{name: "button 1", b4: 0x10, buttons: pad.Button1},
		{name: "button 4", b4: 0x80, buttons: pad.Button4},
		{name: "button 5", b5: 0x01, buttons: pad.Button5},
		{name: "button 10", b5: 0x20, buttons: pad.Button10},
		{name: "all ten", b4: 0xF0, b5: 0x3F, buttons: 0x03FF},
		{name: "byte 5 high bits ignored", b5: 0xC0, buttons: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Keep the hat nibble neutral so only buttons vary.
			s := pad.Decode([8]byte{128, 128, 128, 128, tc.b4 | 0x08, tc.b5, 0, 0})
			assert.Equal(t, tc.buttons, s.Buttons)
		})
	}
}

func TestDecodeHat(t *testing.T) {
	type testCase struct {
		name   string
		nibble byte
		dpad   uint8
	}

	cases := []testCase{
		{name: "up", nibble: 0x00, dpad: pad.DPadUp},
		{name: "up-right", nibble: 0x01, dpad: pad.DPadUp | pad.DPadRight},
		{name: "right", nibble: 0x02, dpad: pad.DPadRight},
		{name: "down-right", nibble: 0x03, dpad: pad.DPadDown | pad.DPadRight},
		{name: "down", nibble: 0x04, dpad: pad.DPadDown},
		{name: "down-left", nibble: 0x05, dpad: pad.DPadDown | pad.DPadLeft},
		{name: "left", nibble: 0x06, dpad: pad.DPadLeft},
		{name: "up-left", nibble: 0x07, dpad: pad.DPadUp | pad.DPadLeft},
		{name: "neutral", nibble: 0x08, dpad: 0},
		{name: "out of range", nibble: 0x09, dpad: 0},
		{name: "all bits", nibble: 0x0F, dpad: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := pad.Decode([8]byte{128, 128, 128, 128, tc.nibble, 0, 0, 0})
			assert.Equal(t, tc.dpad, s.DPad)
		})
	}

	t.Run("button bits do not leak into the hat", func(t *testing.T) {
		s := pad.Decode([8]byte{128, 128, 128, 128, 0xF1, 0, 0, 0})
		assert.Equal(t, pad.DPadUp|pad.DPadRight, s.DPad)
		assert.Equal(t, uint16(0x000F), s.Buttons)
	})
}

func TestDecodeSwitches(t *testing.T) {
	s := pad.Decode([8]byte{128, 128, 128, 128, 0x08, 0, 0x04, 0})
	assert.True(t, s.Rumble)
	assert.False(t, s.Mode)

	s = pad.Decode([8]byte{128, 128, 128, 128, 0x08, 0, 0x0C, 0})
	assert.True(t, s.Rumble)
	assert.True(t, s.Mode)
}

func TestDecodeDeterministic(t *testing.T) {
	report := [8]byte{200, 50, 3, 254, 0xA5, 0x2B, 0x0C, 0xFF}
	assert.Equal(t, pad.Decode(report), pad.Decode(report))
}

func TestSnapshotRoundTrip(t *testing.T) {
	type testCase struct {
		name string
		s    pad.Snapshot
	}

	cases := []testCase{
		{name: "neutral", s: pad.Snapshot{}},
		{
			name: "sticks and buttons",
			s:    pad.Snapshot{LX: 72, LY: 78, RX: -128, RY: -50, Buttons: pad.Button1 | pad.Button7},
		},
		{
			name: "hat diagonal and switches",
			s:    pad.Snapshot{DPad: pad.DPadDown | pad.DPadLeft, Rumble: true, Mode: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := tc.s.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, raw, pad.ReportSize)

			var got pad.Snapshot
			require.NoError(t, got.UnmarshalBinary(raw))
			assert.Equal(t, tc.s, got)
		})
	}
}

func TestSnapshotUnmarshalShort(t *testing.T) {
	var s pad.Snapshot
	assert.Error(t, s.UnmarshalBinary(make([]byte, 7)))
}

func TestButtonAccessor(t *testing.T) {
	s := pad.Snapshot{Buttons: pad.Button2 | pad.Button10}
	assert.False(t, s.Button(0))
	assert.True(t, s.Button(2))
	assert.True(t, s.Button(10))
	assert.False(t, s.Button(11))
}
