package extrinsic

import (
	"bytes"
	"testing"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/txcore/internal/crypto"
)

func sampleExtrinsic() *Extrinsic {
	return &Extrinsic{
		Signer:    AccountID{1, 2, 3},
		Signature: Signature{9, 9, 9},
		Extra: Extra{
			SpecVersion: 84,
			GenesisHash: crypto.HashData([]byte("genesis")),
			Era:         MortalEra(256, 1000),
			Nonce:       7,
			Weight:      10_000,
			Tip:         5,
		},
		Call: Call{
			Module:   4,
			Function: 1,
			Args:     []byte{0xde, 0xad, 0xbe, 0xef},
			Class:    Normal,
			GasLimit: 500,
		},
	}
}

func TestExtrinsic_EncodeDecode(t *testing.T) {
	x := sampleExtrinsic()

	b, err := x.Encode()
	require.NoError(t, err)

	decoded, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, x, decoded)

	l, err := x.Len()
	require.NoError(t, err)
	assert.Equal(t, uint32(len(b)), l)
}

func TestDecode_Errors(t *testing.T) {
	unsigned, err := scale.Marshal([]byte{0x04, 1, 2, 3})
	require.NoError(t, err)
	_, err = Decode(unsigned)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode([]byte{0x00})
	assert.ErrorIs(t, err, ErrEmptyExtrinsic)
}

func TestSignedPayload(t *testing.T) {
	x := sampleExtrinsic()

	p1, err := x.SignedPayload()
	require.NoError(t, err)

	// the signature and signer are not part of the payload
	x2 := *x
	x2.Signature = Signature{1}
	x2.Signer = AccountID{7}
	p2, err := x2.SignedPayload()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	// every extra field is
	x3 := *x
	x3.Extra.Tip++
	p3, err := x3.SignedPayload()
	require.NoError(t, err)
	assert.NotEqual(t, p1, p3)
}

func TestSignedPayload_LongPayloadIsHashed(t *testing.T) {
	x := sampleExtrinsic()
	x.Call.Args = bytes.Repeat([]byte{1}, 1024)

	p, err := x.SignedPayload()
	require.NoError(t, err)
	assert.Len(t, p, crypto.HashSize)
}

func TestExtrinsic_Hash(t *testing.T) {
	x := sampleExtrinsic()
	h1, err := x.Hash()
	require.NoError(t, err)

	x2 := *x
	x2.Extra.Nonce++
	h2, err := x2.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
