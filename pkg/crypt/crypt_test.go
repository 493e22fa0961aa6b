package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptBytes(t *testing.T) {
	sealed, err := EncryptBytes([]byte("beach season opens in june"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "beach")

	plain, err := DecryptBytes(sealed)
	require.NoError(t, err)
	assert.Equal(t, "beach season opens in june", string(plain))
}

func TestEncryptBytesIsNonDeterministic(t *testing.T) {
	first, err := EncryptBytes([]byte("same payload"))
	require.NoError(t, err)
	second, err := EncryptBytes([]byte("same payload"))
	require.NoError(t, err)

	// Random nonce per call means identical plaintexts never collide.
	assert.NotEqual(t, first, second)
}

func TestDecryptBytesRejectsTampering(t *testing.T) {
	sealed, err := EncryptBytes([]byte("payload"))
	require.NoError(t, err)

	tampered := []byte(sealed)
	tampered[len(tampered)-5] ^= 'x'

	_, err = DecryptBytes(string(tampered))
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecryptBytesRejectsGarbage(t *testing.T) {
	_, err := DecryptBytes("not base64url at all!!!")
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = DecryptBytes("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestEncryptDecryptJSON(t *testing.T) {
	type payload struct {
		UserID uint   `json:"uid"`
		Note   string `json:"note"`
	}

	sealed, err := EncryptJSON(payload{UserID: 7, Note: "verify"})
	require.NoError(t, err)

	var out payload
	require.NoError(t, DecryptJSON(sealed, &out))
	assert.Equal(t, uint(7), out.UserID)
	assert.Equal(t, "verify", out.Note)
}
