package auth_test

import (
	"net"
	"testing"

	"github.com/Alia5/PADLINK/internal/server/api/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionPair(t *testing.T, clientPassword, serverPassword string) (net.Conn, net.Conn) {
	t.Helper()

	clientKey, err := auth.DeriveKey(clientPassword)
	require.NoError(t, err)
	serverKey, err := auth.DeriveKey(serverPassword)
	require.NoError(t, err)

	rawClient, rawServer := net.Pipe()
	t.Cleanup(func() {
		rawClient.Close()
		rawServer.Close()
	})

	nonce := make([]byte, auth.NonceSize)
	client, err := auth.WrapConn(rawClient, auth.DeriveSessionKey(clientKey, nonce, nonce))
	require.NoError(t, err)
	server, err := auth.WrapConn(rawServer, auth.DeriveSessionKey(serverKey, nonce, nonce))
	require.NoError(t, err)
	return client, server
}

func TestConnRoundTrip(t *testing.T) {
	client, server := sessionPair(t, "test123", "test123")

	go func() {
		_, _ = client.Write([]byte("Hello, World!"))
		_, _ = client.Write([]byte("second packet"))
	}()

	buf := make([]byte, 13)
	for _, want := range []string{"Hello, World!", "second packet"} {
		n, err := server.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, want, string(buf[:n]))
	}
}

func TestConnKeyMismatch(t *testing.T) {
	client, server := sessionPair(t, "test123", "123test")

	go func() { _, _ = client.Write([]byte("x")) }()

	buf := make([]byte, 16)
	_, err := server.Read(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message authentication failed")
}

func TestWrapConnBadKey(t *testing.T) {
	rawClient, rawServer := net.Pipe()
	defer rawClient.Close()
	defer rawServer.Close()

	_, err := auth.WrapConn(rawClient, []byte{1, 2, 3})
	assert.Error(t, err)
}
