package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	AutoGenKeyLength = 16
	base62Chars      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	pbkdf2Iterations = 100000
	pbkdf2Salt       = "PADLINK-Key-v1"
	sessionContext   = "PADLINK-Session-v1"
)

// GenerateKey creates a random 16-char base62 key for first-run setups.
func GenerateKey() (string, error) {
	randomBytes := make([]byte, AutoGenKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	key := make([]byte, AutoGenKeyLength)
	for i, b := range randomBytes {
		key[i] = base62Chars[int(b)%len(base62Chars)]
	}
	return string(key), nil
}

// DeriveKey stretches any password to a 32-byte key via PBKDF2.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	return pbkdf2.Key([]byte(password), []byte(pbkdf2Salt), pbkdf2Iterations, 32, sha256.New), nil
}

// DeriveSessionKey mixes the shared key with both handshake nonces. Plain
// SHA mixing keeps non-Go clients easy to implement.
func DeriveSessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}
