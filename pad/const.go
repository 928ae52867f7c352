package pad

// USB identity of the Logitech RumblePad 2. Matching is the provider's job;
// the decoder itself never looks at these.
const (
	VendorID  = 0x046D
	ProductID = 0xC218
)

// ReportSize is the fixed length of an input report.
const ReportSize = 8

// Button masks for Snapshot.Buttons. The pad labels its buttons 1-10.
const (
	Button1 uint16 = 1 << iota
	Button2
	Button3
	Button4
	Button5
	Button6
	Button7
	Button8
	Button9
	Button10

	ButtonCount = 10
)

// DPad flag bits for Snapshot.DPad. Diagonal hat positions set two
// adjacent flags.
const (
	DPadUp uint8 = 1 << iota
	DPadRight
	DPadDown
	DPadLeft
)

// Report byte 4: low nibble is the hat code, high nibble holds buttons 1-4.
const (
	HatMask      uint8 = 0x0F
	HatUp              = 0x00
	HatUpRight         = 0x01
	HatRight           = 0x02
	HatDownRight       = 0x03
	HatDown            = 0x04
	HatDownLeft        = 0x05
	HatLeft            = 0x06
	HatUpLeft          = 0x07
	// Anything outside 0x00..0x07 means "hat released". The encoder uses
	// 0x08 for that, matching what the physical pad reports.
	HatNeutral = 0x08
)

// Report byte 6 flag bits.
const (
	RumbleBit uint8 = 0x04
	ModeBit   uint8 = 0x08
)
