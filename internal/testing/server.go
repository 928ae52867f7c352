// Package testing holds shared helpers for integration-style tests that
// need a running API server on an ephemeral port.
package testing

import (
	"log/slog"
	"testing"

	"github.com/Alia5/PADLINK/internal/server/api"

	"github.com/stretchr/testify/require"
)

// StartAPIServer starts an API server on 127.0.0.1 with an ephemeral port.
// The register callback wires routes before the listener comes up. The
// returned closeFn stops the server.
func StartAPIServer(t *testing.T, password string, register func(r *api.Router)) (addr string, closeFn func()) {
	t.Helper()

	srv, err := api.New(api.ServerConfig{Addr: "127.0.0.1:0", Password: password}, slog.Default())
	require.NoError(t, err)
	if register != nil {
		register(srv.Router())
	}
	require.NoError(t, srv.Start())
	return srv.Addr(), srv.Close
}
