package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/PADLINK/apitypes"
	"github.com/Alia5/PADLINK/internal/server/api"
	"github.com/Alia5/PADLINK/pad"
)

// State returns a handler serving the currently decoded controller state.
// Error logging is centralized in the API server.
func State(c *pad.Controller) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		snapshot, connected := c.State()
		b, err := json.Marshal(apitypes.StateOf(snapshot, connected))
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
