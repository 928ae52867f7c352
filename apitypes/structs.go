package apitypes

import (
	"fmt"

	"github.com/Alia5/PADLINK/pad"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type Stick struct {
	X int8 `json:"x"`
	Y int8 `json:"y"`
}

type DPad struct {
	Up    bool `json:"up"`
	Right bool `json:"right"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
}

// StateResponse is the decoded controller state as served by the "state"
// route. Buttons lists the pressed button numbers (1-10).
type StateResponse struct {
	Connected  bool  `json:"connected"`
	LeftStick  Stick `json:"leftStick"`
	RightStick Stick `json:"rightStick"`
	Buttons    []int `json:"buttons"`
	DPad       DPad  `json:"dpad"`
	Rumble     bool  `json:"rumble"`
	Mode       bool  `json:"mode"`
}

// StateOf converts a snapshot into the wire representation.
func StateOf(s pad.Snapshot, connected bool) StateResponse {
	resp := StateResponse{
		Connected:  connected,
		LeftStick:  Stick{X: s.LX, Y: s.LY},
		RightStick: Stick{X: s.RX, Y: s.RY},
		DPad:       DPad{Up: s.Up(), Right: s.Right(), Down: s.Down(), Left: s.Left()},
		Rumble:     s.Rumble,
		Mode:       s.Mode,
	}
	for n := 1; n <= pad.ButtonCount; n++ {
		if s.Button(n) {
			resp.Buttons = append(resp.Buttons, n)
		}
	}
	return resp
}
