package balances

import (
	"errors"

	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrImbalanceConsumed   = errors.New("imbalance already resolved")
	ErrSplitExceedsAmount  = errors.New("split amount exceeds imbalance")
)

// Imbalance is currency that has been removed from an account but not yet
// credited anywhere. Every imbalance must be consumed exactly once, either by
// resolving it into accounts or by burning it.
type Imbalance struct {
	amount   fee.Balance
	consumed bool
}

// NewImbalance is meant for Ledger implementations only: an imbalance must
// correspond to currency they actually took out of circulation.
func NewImbalance(amount fee.Balance) *Imbalance {
	return &Imbalance{amount: amount}
}

func (i *Imbalance) Amount() fee.Balance {
	return i.amount
}

// Resolved reports whether the imbalance has been consumed.
func (i *Imbalance) Resolved() bool {
	return i.consumed
}

// Take consumes the imbalance and returns its amount.
func (i *Imbalance) Take() (fee.Balance, error) {
	if i.consumed {
		return 0, ErrImbalanceConsumed
	}
	i.consumed = true
	return i.amount, nil
}

// Split consumes the imbalance and returns one of exactly amount and one of
// the remainder.
func (i *Imbalance) Split(amount fee.Balance) (*Imbalance, *Imbalance, error) {
	if i.consumed {
		return nil, nil, ErrImbalanceConsumed
	}
	rest, ok := i.amount.CheckedSub(amount)
	if !ok {
		return nil, nil, ErrSplitExceedsAmount
	}
	i.consumed = true
	return NewImbalance(amount), NewImbalance(rest), nil
}

// Ledger owns account balances. The core only debits fees and credits the
// resulting imbalances through it.
type Ledger interface {
	BalanceOf(who extrinsic.AccountID) (fee.Balance, error)
	// Withdraw removes amount from who, failing with ErrInsufficientBalance.
	Withdraw(who extrinsic.AccountID, amount fee.Balance) (*Imbalance, error)
	// Resolve credits the imbalance to who, consuming it.
	Resolve(imb *Imbalance, who extrinsic.AccountID) error
	// Burn consumes the imbalance by reducing total issuance.
	Burn(imb *Imbalance) error
}
