package cryptox

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	key1 := DeriveMasterKey([]byte("secret-password"), []byte("fixed-salt"))
	key2 := DeriveMasterKey([]byte("secret-password"), []byte("fixed-salt"))

	require.True(t, bytes.Equal(key1, key2))
	assert.Equal(t, "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3", hex.EncodeToString(key1))
	assert.NotEqual(t, key1, DeriveMasterKey([]byte("secret-password"), []byte("other-salt")))
}

func TestSealOpen(t *testing.T) {
	key := DeriveMasterKey([]byte("pw"), []byte("salt"))
	ct, nonce, err := Seal([]byte("seed bytes"), key)
	require.NoError(t, err)

	pt, err := Open(ct, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, "seed bytes", string(pt))

	wrong := DeriveMasterKey([]byte("nope"), []byte("salt"))
	_, err = Open(ct, nonce, wrong)
	require.ErrorIs(t, err, ErrDecrypt)

	_, err = Open(ct, []byte("short"), key)
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestSignVerifyAddress(t *testing.T) {
	seed, err := GenerateSeed()
	require.NoError(t, err)
	addr := EncodeAddress(PublicKey(seed))

	sig := Sign(seed, []byte("challenge"))
	require.NoError(t, VerifyAddress(addr, []byte("challenge"), sig))
	require.ErrorIs(t, VerifyAddress(addr, []byte("other"), sig), ErrBadSignature)
	require.ErrorIs(t, VerifyAddress("not-an-address", []byte("challenge"), sig), ErrInvalidAddress)
}

func TestEncodeAddress_KnownVector(t *testing.T) {
	// All-zero key, checked against the Stellar strkey reference encoding.
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	assert.Equal(t, "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF", EncodeAddress(pub))
}

func TestDecodeAddress_RoundTripAndChecksum(t *testing.T) {
	seed, err := GenerateSeed()
	require.NoError(t, err)
	pub := PublicKey(seed)
	addr := EncodeAddress(pub)

	require.Len(t, addr, 56)
	require.True(t, strings.HasPrefix(addr, "G"))

	got, err := DecodeAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, pub, got)

	// Flip one character in the key body.
	b := []byte(addr)
	if b[10] == 'A' {
		b[10] = 'B'
	} else {
		b[10] = 'A'
	}
	_, err = DecodeAddress(string(b))
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "GABC...1234", ShortAddress("GABCDEFGHIJ1234"))
	assert.Equal(t, "GAB", ShortAddress("GAB"))
}

func TestCRC16_XModemCheckValue(t *testing.T) {
	assert.Equal(t, uint16(0x31C3), crc16([]byte("123456789")))
}
