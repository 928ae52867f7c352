package pad

import "io"

// Kind identifies which field group of a Snapshot an Event describes.
type Kind uint8

const (
	KindConnected Kind = iota + 1
	KindDisconnected
	KindLeftStick
	KindRightStick
	KindButton
	KindDPad
	KindRumble
	KindMode
)

func (k Kind) String() string {
	switch k {
	case KindConnected:
		return "connected"
	case KindDisconnected:
		return "disconnected"
	case KindLeftStick:
		return "leftStick"
	case KindRightStick:
		return "rightStick"
	case KindButton:
		return "button"
	case KindDPad:
		return "dpad"
	case KindRumble:
		return "rumble"
	case KindMode:
		return "mode"
	default:
		return "unknown"
	}
}

// Event is a single change notification. Only the fields matching Kind are
// meaningful: X/Y for sticks, Button/Pressed for buttons, DPad for the hat,
// Pressed for rumble and mode.
type Event struct {
	Kind    Kind
	X, Y    int8
	Button  uint8
	Pressed bool
	DPad    uint8
}

// EventSize is the fixed length of an encoded Event.
const EventSize = 4

// MarshalBinary encodes the event into its 4-byte stream frame:
// kind, then up to three kind-specific argument bytes.
func (e Event) MarshalBinary() ([]byte, error) {
	b := make([]byte, EventSize)
	b[0] = byte(e.Kind)
	switch e.Kind {
	case KindLeftStick, KindRightStick:
		b[1] = byte(e.X)
		b[2] = byte(e.Y)
	case KindButton:
		b[1] = e.Button
		b[2] = boolByte(e.Pressed)
	case KindDPad:
		b[1] = e.DPad
	case KindRumble, KindMode:
		b[1] = boolByte(e.Pressed)
	}
	return b, nil
}

// UnmarshalBinary decodes a 4-byte stream frame.
func (e *Event) UnmarshalBinary(data []byte) error {
	if len(data) < EventSize {
		return io.ErrUnexpectedEOF
	}
	*e = Event{Kind: Kind(data[0])}
	switch e.Kind {
	case KindLeftStick, KindRightStick:
		e.X = int8(data[1])
		e.Y = int8(data[2])
	case KindButton:
		e.Button = data[1]
		e.Pressed = data[2] != 0
	case KindDPad:
		e.DPad = data[1]
	case KindRumble, KindMode:
		e.Pressed = data[1] != 0
	}
	return nil
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Diff compares two snapshots and returns one Event per field group whose
// value changed, carrying the new value. The order is fixed: left stick,
// right stick, buttons 1-10, dpad, rumble, mode. Equal snapshots yield nil.
func Diff(old, cur Snapshot) []Event {
	var events []Event
	if old.LX != cur.LX || old.LY != cur.LY {
		events = append(events, Event{Kind: KindLeftStick, X: cur.LX, Y: cur.LY})
	}
	if old.RX != cur.RX || old.RY != cur.RY {
		events = append(events, Event{Kind: KindRightStick, X: cur.RX, Y: cur.RY})
	}
	for n := 1; n <= ButtonCount; n++ {
		if old.Button(n) != cur.Button(n) {
			events = append(events, Event{Kind: KindButton, Button: uint8(n), Pressed: cur.Button(n)})
		}
	}
	if old.DPad != cur.DPad {
		events = append(events, Event{Kind: KindDPad, DPad: cur.DPad})
	}
	if old.Rumble != cur.Rumble {
		events = append(events, Event{Kind: KindRumble, Pressed: cur.Rumble})
	}
	if old.Mode != cur.Mode {
		events = append(events, Event{Kind: KindMode, Pressed: cur.Mode})
	}
	return events
}
