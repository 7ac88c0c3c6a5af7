package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ChainSafe/gossamer/pkg/scale"

	"github.com/eigerco/txcore/internal/crypto"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/pkg/db"
	"github.com/eigerco/txcore/pkg/db/pebble"
)

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrBlocksClosed  = errors.New("block store is closed")
)

// BlockRecord summarizes the fee-relevant outcome of a finalized block.
type BlockRecord struct {
	Number     extrinsic.BlockNumber
	HasAuthor  bool
	Author     extrinsic.AccountID
	Weight     fee.Weight
	Length     uint32
	Fullness   fee.Perbill
	Multiplier fee.Multiplier // multiplier that applies to the next block
	Fees       fee.Balance
	Burned     fee.Balance
	Extrinsics []crypto.Hash
}

// Blocks stores finalized block records keyed by block number
type Blocks struct {
	db     db.KVStore
	closed atomic.Bool
}

// NewBlocks creates a new block record store using KVStore
func NewBlocks(kv db.KVStore) *Blocks {
	return &Blocks{db: kv}
}

// PutBlock stores a block record
func (b *Blocks) PutBlock(r BlockRecord) error {
	if b.closed.Load() {
		return ErrBlocksClosed
	}

	data, err := scale.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal block record: %w", err)
	}
	if err := b.db.Put(blockKey(r.Number), data); err != nil {
		return fmt.Errorf("store block record: %w", err)
	}
	return nil
}

// GetBlock retrieves a block record by number
func (b *Blocks) GetBlock(n extrinsic.BlockNumber) (BlockRecord, error) {
	if b.closed.Load() {
		return BlockRecord{}, ErrBlocksClosed
	}

	data, err := b.db.Get(blockKey(n))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return BlockRecord{}, ErrBlockNotFound
		}
		return BlockRecord{}, fmt.Errorf("get block record: %w", err)
	}

	var r BlockRecord
	if err := scale.Unmarshal(data, &r); err != nil {
		return BlockRecord{}, fmt.Errorf("unmarshal block record: %w", err)
	}
	return r, nil
}

// Range returns up to max records starting at block from, in ascending order.
func (b *Blocks) Range(from extrinsic.BlockNumber, max int) ([]BlockRecord, error) {
	if b.closed.Load() {
		return nil, ErrBlocksClosed
	}

	iter, err := b.db.NewIterator(blockKey(from), []byte{prefixBlock + 1})
	if err != nil {
		return nil, fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	var records []BlockRecord
	for len(records) < max && iter.Next() {
		data, err := iter.Value()
		if err != nil {
			return nil, fmt.Errorf("read block record: %w", err)
		}
		var r BlockRecord
		if err := scale.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("unmarshal block record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Latest returns the record with the highest block number, ErrBlockNotFound
// when no block has been recorded.
func (b *Blocks) Latest() (BlockRecord, error) {
	const page = 256
	var (
		latest BlockRecord
		found  bool
		from   extrinsic.BlockNumber
	)
	for {
		records, err := b.Range(from, page)
		if err != nil {
			return BlockRecord{}, err
		}
		if len(records) > 0 {
			latest, found = records[len(records)-1], true
		}
		if len(records) < page || latest.Number == math.MaxUint64 {
			break
		}
		from = latest.Number + 1
	}
	if !found {
		return BlockRecord{}, ErrBlockNotFound
	}
	return latest, nil
}

// Close closes the block store. The underlying database is owned by the
// caller.
func (b *Blocks) Close() error {
	b.closed.Store(true)
	return nil
}

// blockKey uses a big-endian number so that iteration follows block order
func blockKey(n extrinsic.BlockNumber) []byte {
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], uint64(n))
	return makeKey(prefixBlock, num[:])
}
