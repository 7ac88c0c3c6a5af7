package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
)

func Test_PutGetBlock(t *testing.T) {
	blocks := NewBlocks(newKV(t))
	record := BlockRecord{
		Number:     7,
		HasAuthor:  true,
		Author:     alice,
		Weight:     250_000_000,
		Length:     1024,
		Fullness:   fee.PerbillFromPercent(25),
		Multiplier: fee.One,
		Fees:       16,
		Burned:     0,
		Extrinsics: []crypto.Hash{crypto.HashData([]byte("xt"))},
	}
	require.NoError(t, blocks.PutBlock(record))

	got, err := blocks.GetBlock(7)
	require.NoError(t, err)
	require.Equal(t, record, got)
}

func Test_GetBlockNotFound(t *testing.T) {
	blocks := NewBlocks(newKV(t))
	_, err := blocks.GetBlock(1)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func Test_BlocksClosed(t *testing.T) {
	blocks := NewBlocks(newKV(t))
	require.NoError(t, blocks.Close())
	// Closing a closed store should have no effect/error
	require.NoError(t, blocks.Close())

	_, err := blocks.GetBlock(1)
	require.ErrorIs(t, err, ErrBlocksClosed)
}

func Test_Range(t *testing.T) {
	blocks := NewBlocks(newKV(t))
	for _, n := range []extrinsic.BlockNumber{3, 1, 256, 2} {
		require.NoError(t, blocks.PutBlock(BlockRecord{Number: n, Extrinsics: []crypto.Hash{}}))
	}

	records, err := blocks.Range(2, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, extrinsic.BlockNumber(2), records[0].Number)
	require.Equal(t, extrinsic.BlockNumber(3), records[1].Number)
	require.Equal(t, extrinsic.BlockNumber(256), records[2].Number)

	records, err = blocks.Range(1, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func Test_Latest(t *testing.T) {
	blocks := NewBlocks(newKV(t))
	_, err := blocks.Latest()
	require.ErrorIs(t, err, ErrBlockNotFound)

	for n := extrinsic.BlockNumber(1); n <= 600; n++ {
		require.NoError(t, blocks.PutBlock(BlockRecord{Number: n}))
	}
	latest, err := blocks.Latest()
	require.NoError(t, err)
	require.Equal(t, extrinsic.BlockNumber(600), latest.Number)
}
