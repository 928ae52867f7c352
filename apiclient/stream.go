package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Alia5/PADLINK/apitypes"
	"github.com/Alia5/PADLINK/pad"
)

// EventStream is a long-lived subscription to the server's change feed.
// Frames arrive on C until the stream ends; Err reports why afterwards.
type EventStream struct {
	conn net.Conn
	ch   chan pad.Event

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// Events opens the binary event stream. The context only governs the
// connection setup; close the stream to stop it.
func (c *Client) Events(ctx context.Context) (*EventStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("event streams not supported with mock transport")
	}

	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte("events\x00")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	// The transport's request deadlines do not apply to a stream.
	_ = conn.SetDeadline(time.Time{})

	s := &EventStream{conn: conn, ch: make(chan pad.Event, 64)}
	go s.readLoop()
	return s, nil
}

// C returns the channel events arrive on. It is closed when the stream
// ends; check Err afterwards.
func (s *EventStream) C() <-chan pad.Event { return s.ch }

// Err returns the terminal stream error, nil for a clean shutdown.
func (s *EventStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close terminates the subscription.
func (s *EventStream) Close() error {
	s.closeOnce.Do(func() { _ = s.conn.Close() })
	return nil
}

func (s *EventStream) readLoop() {
	defer close(s.ch)

	frame := make([]byte, pad.EventSize)
	first := true
	for {
		if _, err := io.ReadFull(s.conn, frame); err != nil {
			if err != io.EOF {
				s.fail(fmt.Errorf("read event frame: %w", err))
			}
			return
		}

		// A server refusing the stream answers with a problem+json line
		// instead of frames.
		if first && frame[0] == '{' {
			rest, _ := io.ReadAll(s.conn)
			line := append(append([]byte(nil), frame...), rest...)
			var apiErr apitypes.ApiError
			if err := json.Unmarshal(trimLine(line), &apiErr); err == nil && (apiErr.Status != 0 || apiErr.Title != "") {
				s.fail(&apiErr)
			} else {
				s.fail(fmt.Errorf("unexpected stream response: %s", line))
			}
			return
		}
		first = false

		var ev pad.Event
		if err := ev.UnmarshalBinary(frame); err != nil {
			s.fail(fmt.Errorf("decode event frame: %w", err))
			return
		}
		s.ch <- ev
	}
}

func (s *EventStream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
