package testutils

import (
	"github.com/stretchr/testify/mock"

	"github.com/eigerco/txcore/internal/balances"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
)

// MockLedger is a testify mock of balances.Ledger. Resolve and Burn consume
// the imbalance whenever the mocked call returns no error.
type MockLedger struct {
	mock.Mock
}

var _ balances.Ledger = (*MockLedger)(nil)

func (m *MockLedger) BalanceOf(who extrinsic.AccountID) (fee.Balance, error) {
	args := m.Called(who)
	return args.Get(0).(fee.Balance), args.Error(1)
}

func (m *MockLedger) Withdraw(who extrinsic.AccountID, amount fee.Balance) (*balances.Imbalance, error) {
	args := m.Called(who, amount)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return balances.NewImbalance(amount), nil
}

func (m *MockLedger) Resolve(imb *balances.Imbalance, who extrinsic.AccountID) error {
	args := m.Called(imb.Amount(), who)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := imb.Take()
	return err
}

func (m *MockLedger) Burn(imb *balances.Imbalance) error {
	args := m.Called(imb.Amount())
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := imb.Take()
	return err
}
