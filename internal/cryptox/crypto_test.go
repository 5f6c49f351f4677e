package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	assert.Len(t, key1, KeySize)
	assert.True(t, bytes.Equal(key1, key2), "same inputs must give same key")

	other := DeriveKey(secret, []byte("other-salt"))
	assert.False(t, bytes.Equal(key1, other), "salt must change the key")
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("learnsphere"))
	plain := []byte(`{"identity":{"token":"abc"}}`)

	sealed1, err := Seal(key, plain)
	require.NoError(t, err)
	sealed2, err := Seal(key, plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed1, sealed2, "nonce must differ per call")

	got, err := Open(key, sealed1)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestOpen_Rejects(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("learnsphere"))
	sealed, err := Seal(key, []byte("payload"))
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := Open(DeriveKey([]byte("x"), []byte("learnsphere")), sealed)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("tampered", func(t *testing.T) {
		bad := append([]byte(nil), sealed...)
		bad[len(bad)-1] ^= 0xff
		_, err := Open(key, bad)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := Open(key, []byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("bad key size", func(t *testing.T) {
		_, err := Open([]byte("short"), sealed)
		assert.Error(t, err)
	})
}
