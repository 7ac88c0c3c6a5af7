package extrinsic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSS58_KnownVector(t *testing.T) {
	// Alice's well-known sr25519 public key, used here only as 32 raw bytes
	alice := AccountID{
		0xd4, 0x35, 0x93, 0xc7, 0x15, 0xfd, 0xd3, 0x1c, 0x61, 0x14, 0x1a, 0xbd, 0x04, 0xa9, 0x9f, 0xd6,
		0x82, 0x2c, 0x85, 0x58, 0x85, 0x4c, 0xcd, 0xe3, 0x9a, 0x56, 0x84, 0xe7, 0xa5, 0x6d, 0xa2, 0x7d,
	}
	addr, err := alice.SS58(DefaultSS58Prefix)
	require.NoError(t, err)
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", addr)
	assert.Equal(t, addr, alice.String())
}

func TestSS58_RoundTrip(t *testing.T) {
	id := AccountID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for _, prefix := range []uint16{0, 2, 42, 63, 64, 255, 1284, 16383} {
		addr, err := id.SS58(prefix)
		require.NoError(t, err)

		decoded, gotPrefix, err := AccountFromSS58(addr)
		require.NoError(t, err, "prefix %d", prefix)
		assert.Equal(t, id, decoded)
		assert.Equal(t, prefix, gotPrefix)
	}
}

func TestSS58_Errors(t *testing.T) {
	id := AccountID{9}

	_, err := id.SS58(16384)
	assert.ErrorIs(t, err, ErrUnsupportedPrefix)

	addr, err := id.SS58(DefaultSS58Prefix)
	require.NoError(t, err)

	// flip the last character to break the checksum
	last := addr[len(addr)-1]
	replacement := byte('2')
	if last == replacement {
		replacement = '3'
	}
	broken := addr[:len(addr)-1] + string(replacement)
	_, _, err = AccountFromSS58(broken)
	assert.Error(t, err)

	_, _, err = AccountFromSS58("0OIl")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAccountFromPublicKey(t *testing.T) {
	_, err := AccountFromPublicKey(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidAccountSize)

	pk := make([]byte, 32)
	pk[0] = 0xaa
	id, err := AccountFromPublicKey(pk)
	require.NoError(t, err)
	assert.Equal(t, []byte(pk), []byte(id.PublicKey()))
}
