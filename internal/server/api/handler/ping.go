package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/PADLINK/apitypes"
	"github.com/Alia5/PADLINK/internal/server/api"
	"github.com/Alia5/PADLINK/internal/version"
)

// Ping returns a handler reporting the server identity and version.
func Ping() api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		b, err := json.Marshal(apitypes.PingResponse{Server: version.Server, Version: version.Version})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
