package pad

import "io"

// Snapshot is one fully-decoded instant of RumblePad 2 state. It is a plain
// value: compare with ==, replace wholesale, never mutate in place. The zero
// value is the neutral state (sticks centered, nothing pressed).
type Snapshot struct {
	// Sticks: -128..127 per axis, positive LX/RX is right, positive LY/RY is up.
	LX, LY int8
	RX, RY int8
	// Buttons: bits 0..9 are buttons 1-10, see Button1..Button10.
	Buttons uint16
	// DPad: DPadUp/DPadRight/DPadDown/DPadLeft flag bits.
	DPad uint8

	Rumble bool
	Mode   bool
}

// Button reports whether button n (1-10) is pressed.
// Out-of-range n is never pressed.
func (s Snapshot) Button(n int) bool {
	if n < 1 || n > ButtonCount {
		return false
	}
	return s.Buttons&(1<<(n-1)) != 0
}

func (s Snapshot) Up() bool    { return s.DPad&DPadUp != 0 }
func (s Snapshot) Right() bool { return s.DPad&DPadRight != 0 }
func (s Snapshot) Down() bool  { return s.DPad&DPadDown != 0 }
func (s Snapshot) Left() bool  { return s.DPad&DPadLeft != 0 }

// hatFlags maps hat codes 0x00..0x07 to dpad flag combinations.
var hatFlags = [8]uint8{
	HatUp:        DPadUp,
	HatUpRight:   DPadUp | DPadRight,
	HatRight:     DPadRight,
	HatDownRight: DPadRight | DPadDown,
	HatDown:      DPadDown,
	HatDownLeft:  DPadDown | DPadLeft,
	HatLeft:      DPadLeft,
	HatUpLeft:    DPadLeft | DPadUp,
}

// Decode turns a raw 8-byte input report into a Snapshot.
// It is total: any byte values yield a defined result, no report is rejected.
//
// Report layout:
//
//	0: left stick horizontal, unsigned 0-255
//	1: left stick vertical, unsigned 0-255 (0 is up)
//	2: right stick horizontal
//	3: right stick vertical
//	4: low nibble hat code, bits 0x10/0x20/0x40/0x80 buttons 1-4
//	5: bits 0x01..0x20 buttons 5-10
//	6: bit 0x04 rumble switch, bit 0x08 mode switch
//	7: unused
//
// Axes are re-centered to -128..127. Vertical axes are inverted so positive
// means up; the single overflow value (raw 0, which would invert to +128)
// clamps to +127.
func Decode(report [ReportSize]byte) Snapshot {
	var s Snapshot
	s.LX = int8(int16(report[0]) - 128)
	s.LY = invertAxis(report[1])
	s.RX = int8(int16(report[2]) - 128)
	s.RY = invertAxis(report[3])

	s.Buttons = uint16(report[4]>>4) | uint16(report[5]&0x3F)<<4

	if hat := report[4] & HatMask; hat < uint8(len(hatFlags)) {
		s.DPad = hatFlags[hat]
	}

	s.Rumble = report[6]&RumbleBit != 0
	s.Mode = report[6]&ModeBit != 0
	return s
}

func invertAxis(raw byte) int8 {
	v := 128 - int16(raw)
	if v > 127 {
		v = 127
	}
	return int8(v)
}

// MarshalBinary encodes the snapshot back into the 8-byte report layout.
// It is the inverse of Decode except at the clamped vertical extreme
// (+127 always encodes as raw 1).
func (s Snapshot) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = uint8(int16(s.LX) + 128)
	b[1] = revertAxis(s.LY)
	b[2] = uint8(int16(s.RX) + 128)
	b[3] = revertAxis(s.RY)

	b[4] = uint8(s.Buttons&0x0F)<<4 | s.hatCode()
	b[5] = uint8(s.Buttons >> 4 & 0x3F)

	if s.Rumble {
		b[6] |= RumbleBit
	}
	if s.Mode {
		b[6] |= ModeBit
	}
	return b, nil
}

// UnmarshalBinary decodes a raw report via Decode.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	var report [ReportSize]byte
	copy(report[:], data)
	*s = Decode(report)
	return nil
}

func revertAxis(v int8) byte {
	r := 128 - int16(v)
	if r > 255 {
		r = 255
	}
	return byte(r)
}

func (s Snapshot) hatCode() uint8 {
	switch s.DPad {
	case DPadUp:
		return HatUp
	case DPadUp | DPadRight:
		return HatUpRight
	case DPadRight:
		return HatRight
	case DPadRight | DPadDown:
		return HatDownRight
	case DPadDown:
		return HatDown
	case DPadDown | DPadLeft:
		return HatDownLeft
	case DPadLeft:
		return HatLeft
	case DPadLeft | DPadUp:
		return HatUpLeft
	default:
		return HatNeutral
	}
}
