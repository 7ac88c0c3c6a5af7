package balances

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImbalance_Take(t *testing.T) {
	imb := NewImbalance(16)
	assert.False(t, imb.Resolved())

	amount, err := imb.Take()
	require.NoError(t, err)
	assert.Equal(t, uint64(16), uint64(amount))
	assert.True(t, imb.Resolved())

	_, err = imb.Take()
	assert.ErrorIs(t, err, ErrImbalanceConsumed)
}

func TestImbalance_Split(t *testing.T) {
	imb := NewImbalance(16)

	first, rest, err := imb.Split(12)
	require.NoError(t, err)
	assert.True(t, imb.Resolved())
	assert.Equal(t, uint64(12), uint64(first.Amount()))
	assert.Equal(t, uint64(4), uint64(rest.Amount()))

	_, _, err = imb.Split(1)
	assert.ErrorIs(t, err, ErrImbalanceConsumed)

	_, _, err = rest.Split(5)
	assert.ErrorIs(t, err, ErrSplitExceedsAmount)
	assert.False(t, rest.Resolved())
}
