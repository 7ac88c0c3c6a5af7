package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFromHex(t *testing.T) {
	h := HashData([]byte("genesis"))

	parsed, err := HashFromHex(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = HashFromHex("0x0102")
	assert.Error(t, err)

	_, err = HashFromHex("zz")
	assert.Error(t, err)
}
