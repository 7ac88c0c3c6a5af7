package store

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ChainSafe/gossamer/pkg/scale"

	"github.com/eigerco/txcore/internal/balances"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/pkg/db"
	"github.com/eigerco/txcore/pkg/db/pebble"
	"github.com/eigerco/txcore/pkg/log"
)

var (
	ErrBalanceOverflow = errors.New("balance overflow")
	ErrNonceOverflow   = errors.New("nonce overflow")
)

// Accounts keeps balances, nonces, total issuance and the fee multiplier in a
// key-value store. It implements balances.Ledger and the nonce and multiplier
// stores the runtime needs. Every mutation is committed as a single batch.
type Accounts struct {
	reader db.Reader
	kv     db.KVStore
	closed atomic.Bool
}

// NewAccounts creates a writable account store.
func NewAccounts(kv db.KVStore) *Accounts {
	return &Accounts{reader: kv, kv: kv}
}

// NewAccountsView creates a read-only account store, typically over a
// snapshot. Every mutation fails with ErrReadOnly.
func NewAccountsView(r db.Reader) *Accounts {
	return &Accounts{reader: r}
}

var _ balances.Ledger = (*Accounts)(nil)

func (a *Accounts) BalanceOf(who extrinsic.AccountID) (fee.Balance, error) {
	v, err := a.getUint64(makeKey(prefixBalance, who[:]))
	return fee.Balance(v), err
}

// TotalIssuance is the amount of currency in existence.
func (a *Accounts) TotalIssuance() (fee.Balance, error) {
	v, err := a.getUint64([]byte{prefixIssuance})
	return fee.Balance(v), err
}

// Endow mints amount into who's account, increasing total issuance.
func (a *Accounts) Endow(who extrinsic.AccountID, amount fee.Balance) error {
	if err := a.writable(); err != nil {
		return err
	}
	balance, err := a.BalanceOf(who)
	if err != nil {
		return err
	}
	issuance, err := a.TotalIssuance()
	if err != nil {
		return err
	}
	newBalance, ok := balance.CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}
	newIssuance, ok := issuance.CheckedAdd(amount)
	if !ok {
		return ErrBalanceOverflow
	}

	batch := a.kv.NewBatch()
	defer batch.Close()
	if err := putUint64(batch, makeKey(prefixBalance, who[:]), uint64(newBalance)); err != nil {
		return err
	}
	if err := putUint64(batch, []byte{prefixIssuance}, uint64(newIssuance)); err != nil {
		return err
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (a *Accounts) Withdraw(who extrinsic.AccountID, amount fee.Balance) (*balances.Imbalance, error) {
	if err := a.writable(); err != nil {
		return nil, err
	}
	balance, err := a.BalanceOf(who)
	if err != nil {
		return nil, err
	}
	remaining, ok := balance.CheckedSub(amount)
	if !ok {
		return nil, balances.ErrInsufficientBalance
	}
	if err := a.putBalance(who, remaining); err != nil {
		return nil, err
	}
	return balances.NewImbalance(amount), nil
}

func (a *Accounts) Resolve(imb *balances.Imbalance, who extrinsic.AccountID) error {
	if err := a.writable(); err != nil {
		return err
	}
	if imb.Resolved() {
		return balances.ErrImbalanceConsumed
	}
	balance, err := a.BalanceOf(who)
	if err != nil {
		return err
	}
	credited, ok := balance.CheckedAdd(imb.Amount())
	if !ok {
		return ErrBalanceOverflow
	}
	if err := a.putBalance(who, credited); err != nil {
		return err
	}
	_, err = imb.Take()
	return err
}

func (a *Accounts) Burn(imb *balances.Imbalance) error {
	if err := a.writable(); err != nil {
		return err
	}
	if imb.Resolved() {
		return balances.ErrImbalanceConsumed
	}
	issuance, err := a.TotalIssuance()
	if err != nil {
		return err
	}
	// issuance always covers outstanding imbalances
	remaining := issuance.SaturatingSub(imb.Amount())

	batch := a.kv.NewBatch()
	defer batch.Close()
	if err := putUint64(batch, []byte{prefixIssuance}, uint64(remaining)); err != nil {
		return err
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	log.Store.Debug().Uint64("amount", uint64(imb.Amount())).Msg("burned imbalance")
	_, err = imb.Take()
	return err
}

func (a *Accounts) CurrentNonce(who extrinsic.AccountID) (extrinsic.Nonce, error) {
	v, err := a.getUint64(makeKey(prefixNonce, who[:]))
	return extrinsic.Nonce(v), err
}

func (a *Accounts) IncrementNonce(who extrinsic.AccountID) error {
	if err := a.writable(); err != nil {
		return err
	}
	nonce, err := a.CurrentNonce(who)
	if err != nil {
		return err
	}
	if nonce == math.MaxUint32 {
		return ErrNonceOverflow
	}
	return a.put(makeKey(prefixNonce, who[:]), uint64(nonce+1))
}

// Multiplier returns the persisted fee multiplier, fee.One before the first
// block has been finalized.
func (a *Accounts) Multiplier() (fee.Multiplier, error) {
	b, err := a.get([]byte{prefixMultiplier})
	if errors.Is(err, pebble.ErrNotFound) {
		return fee.One, nil
	}
	if err != nil {
		return 0, err
	}
	var m int64
	if err := scale.Unmarshal(b, &m); err != nil {
		return 0, fmt.Errorf("decode multiplier: %w", err)
	}
	return fee.Multiplier(m), nil
}

func (a *Accounts) SetMultiplier(m fee.Multiplier) error {
	if err := a.writable(); err != nil {
		return err
	}
	b, err := scale.Marshal(int64(m))
	if err != nil {
		return fmt.Errorf("encode multiplier: %w", err)
	}
	return a.kv.Put([]byte{prefixMultiplier}, b)
}

// Close marks the store closed. The underlying database is owned by the
// caller.
func (a *Accounts) Close() error {
	a.closed.Store(true)
	return nil
}

func (a *Accounts) putBalance(who extrinsic.AccountID, amount fee.Balance) error {
	return a.put(makeKey(prefixBalance, who[:]), uint64(amount))
}

func (a *Accounts) put(key []byte, v uint64) error {
	batch := a.kv.NewBatch()
	defer batch.Close()
	if err := putUint64(batch, key, v); err != nil {
		return err
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (a *Accounts) writable() error {
	if a.closed.Load() {
		return ErrStoreClosed
	}
	if a.kv == nil {
		return ErrReadOnly
	}
	return nil
}

func (a *Accounts) get(key []byte) ([]byte, error) {
	if a.closed.Load() {
		return nil, ErrStoreClosed
	}
	return a.reader.Get(key)
}

// getUint64 reads a SCALE encoded integer, missing keys read as zero.
func (a *Accounts) getUint64(key []byte) (uint64, error) {
	b, err := a.get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", PrefixToString(key[0]), err)
	}
	var v uint64
	if err := scale.Unmarshal(b, &v); err != nil {
		return 0, fmt.Errorf("decode %s: %w", PrefixToString(key[0]), err)
	}
	return v, nil
}

func putUint64(w db.Writer, key []byte, v uint64) error {
	b, err := scale.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", PrefixToString(key[0]), err)
	}
	if err := w.Put(key, b); err != nil {
		return fmt.Errorf("store %s: %w", PrefixToString(key[0]), err)
	}
	return nil
}
