package auth_test

import (
	"bufio"
	"bytes"
	"net"
	"testing"

	"github.com/Alia5/PADLINK/apitypes"
	"github.com/Alia5/PADLINK/internal/server/api/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAuthHandshake(t *testing.T) {
	r := bufio.NewReader(bytes.NewBufferString(auth.HandshakeMagic + "rest"))
	ok, err := auth.IsAuthHandshake(r)
	require.NoError(t, err)
	assert.True(t, ok)

	r = bufio.NewReader(bytes.NewBufferString("ping\x00"))
	ok, err = auth.IsAuthHandshake(r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandshakeRoundTrip(t *testing.T) {
	key, err := auth.DeriveKey("hunter2hunter2")
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	type result struct {
		clientNonce, serverNonce []byte
		err                      error
	}
	serverDone := make(chan result, 1)
	go func() {
		cn, sn, err := auth.ServerHandshake(bufio.NewReader(serverConn), serverConn, key)
		serverDone <- result{cn, sn, err}
	}()

	cn, sn, err := auth.ClientHandshake(bufio.NewReader(clientConn), clientConn, key)
	require.NoError(t, err)

	srv := <-serverDone
	require.NoError(t, srv.err)
	assert.Equal(t, cn, srv.clientNonce)
	assert.Equal(t, sn, srv.serverNonce)

	// Both ends derive the same session key.
	assert.Equal(t,
		auth.DeriveSessionKey(key, sn, cn),
		auth.DeriveSessionKey(key, srv.serverNonce, srv.clientNonce))
}

func TestHandshakeWrongKey(t *testing.T) {
	serverKey, err := auth.DeriveKey("rightpassword")
	require.NoError(t, err)
	clientKey, err := auth.DeriveKey("wrongpassword")
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	serverDone := make(chan error, 1)
	go func() {
		_, _, err := auth.ServerHandshake(bufio.NewReader(serverConn), serverConn, serverKey)
		serverDone <- err
		serverConn.Close()
	}()

	_, _, clientErr := auth.ClientHandshake(bufio.NewReader(clientConn), clientConn, clientKey)
	assert.Error(t, clientErr)

	serverErr := <-serverDone
	require.Error(t, serverErr)
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, serverErr, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestHandshakeMissingKey(t *testing.T) {
	_, _, err := auth.ClientHandshake(bufio.NewReader(bytes.NewBuffer(nil)), bytes.NewBuffer(nil), nil)
	assert.Error(t, err)

	_, _, err = auth.ServerHandshake(bufio.NewReader(bytes.NewBuffer(nil)), bytes.NewBuffer(nil), nil)
	assert.Error(t, err)
}
