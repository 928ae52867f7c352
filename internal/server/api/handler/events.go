package handler

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/Alia5/PADLINK/internal/server/api"
	"github.com/Alia5/PADLINK/internal/server/feed"
	"github.com/Alia5/PADLINK/pad"
)

// Events returns the stream handler for the binary event feed. A new
// subscriber first receives a catch-up (connected plus the current snapshot
// rendered as change events against neutral), then live frames until it
// disconnects. Frames published between the subscribe and the catch-up may
// arrive twice; clients treat frames as absolute values, so replays are
// harmless.
func Events(c *pad.Controller, hub *feed.Hub, buffer int) api.StreamHandlerFunc {
	return func(conn net.Conn, logger *slog.Logger) error {
		ch, cancel := hub.Subscribe(buffer)
		defer cancel()

		snapshot, connected := c.State()
		if connected {
			catchup := append([]pad.Event{{Kind: pad.KindConnected}}, pad.Diff(pad.Snapshot{}, snapshot)...)
			for _, ev := range catchup {
				if err := writeEvent(conn, ev); err != nil {
					return err
				}
			}
		}

		logger.Debug("event stream subscribed", "subscribers", hub.Subscribers())
		for ev := range ch {
			if err := writeEvent(conn, ev); err != nil {
				// The usual end of a stream: client went away.
				logger.Debug("event stream closed", "error", err)
				return nil
			}
		}
		return nil
	}
}

func writeEvent(conn net.Conn, ev pad.Event) error {
	frame, err := ev.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
