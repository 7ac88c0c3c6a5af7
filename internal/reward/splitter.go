package reward

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eigerco/txcore/internal/balances"
	"github.com/eigerco/txcore/internal/extrinsic"
	"github.com/eigerco/txcore/internal/fee"
	"github.com/eigerco/txcore/pkg/log"
)

var ErrUnresolvedImbalance = errors.New("imbalance left unresolved")

// Environment is the block-level information beneficiaries resolve against.
type Environment struct {
	// Author of the block being built, nil when unknown.
	Author *extrinsic.AccountID
}

// Beneficiary decides which account receives a share of the fees.
type Beneficiary interface {
	Resolve(env Environment) (extrinsic.AccountID, bool)
	String() string
}

type fixedAccount struct {
	id   extrinsic.AccountID
	name string
}

// Account is a beneficiary that always resolves to id.
func Account(name string, id extrinsic.AccountID) Beneficiary {
	return fixedAccount{id: id, name: name}
}

func (f fixedAccount) Resolve(Environment) (extrinsic.AccountID, bool) {
	return f.id, true
}

func (f fixedAccount) String() string {
	return f.name
}

type author struct{}

// Author is a beneficiary that resolves to the current block author.
func Author() Beneficiary {
	return author{}
}

func (author) Resolve(env Environment) (extrinsic.AccountID, bool) {
	if env.Author == nil {
		return extrinsic.AccountID{}, false
	}
	return *env.Author, true
}

func (author) String() string {
	return "author"
}

// Share is a number of parts of the total routed to a beneficiary.
type Share struct {
	Parts       uint32
	Beneficiary Beneficiary
}

// Payout records where one share of an imbalance ended up.
type Payout struct {
	Beneficiary string
	Account     extrinsic.AccountID
	Amount      fee.Balance
	Burned      bool
}

// Splitter routes collected fees to an ordered list of beneficiaries.
type Splitter struct {
	Shares []Share
}

// SplitTwoWays is the common two beneficiary policy.
func SplitTwoWays(p uint32, first Beneficiary, q uint32, second Beneficiary) Splitter {
	return Splitter{Shares: []Share{
		{Parts: p, Beneficiary: first},
		{Parts: q, Beneficiary: second},
	}}
}

func (s Splitter) String() string {
	parts := make([]string, 0, len(s.Shares))
	for _, sh := range s.Shares {
		parts = append(parts, fmt.Sprintf("%d:%s", sh.Parts, sh.Beneficiary))
	}
	return strings.Join(parts, ",")
}

// Distribute consumes imb, crediting each share to its beneficiary. A share
// whose beneficiary cannot be resolved, or which the ledger refuses to
// credit, is burned. The returned payouts follow the order of Shares.
func (s Splitter) Distribute(ledger balances.Ledger, imb *balances.Imbalance, env Environment) ([]Payout, error) {
	if len(s.Shares) == 0 {
		if err := ledger.Burn(imb); err != nil {
			return nil, fmt.Errorf("burn fees: %w", err)
		}
		return []Payout{{Beneficiary: "burn", Amount: imb.Amount(), Burned: true}}, nil
	}

	weights := make([]uint32, len(s.Shares))
	for i, sh := range s.Shares {
		weights[i] = sh.Parts
	}
	amounts := Shares(imb.Amount(), weights)

	parts := make([]*balances.Imbalance, len(s.Shares))
	rest := imb
	for i := 0; i < len(s.Shares)-1; i++ {
		part, remainder, err := rest.Split(amounts[i])
		if err != nil {
			return nil, fmt.Errorf("split fees: %w", err)
		}
		parts[i], rest = part, remainder
	}
	parts[len(parts)-1] = rest

	payouts := make([]Payout, 0, len(parts))
	for i, part := range parts {
		payout, err := settle(ledger, part, s.Shares[i].Beneficiary, env)
		if err != nil {
			return payouts, err
		}
		payouts = append(payouts, payout)
	}

	for _, part := range parts {
		if !part.Resolved() {
			return payouts, ErrUnresolvedImbalance
		}
	}
	return payouts, nil
}

func settle(ledger balances.Ledger, part *balances.Imbalance, b Beneficiary, env Environment) (Payout, error) {
	payout := Payout{Beneficiary: b.String(), Amount: part.Amount()}

	if who, ok := b.Resolve(env); ok {
		err := ledger.Resolve(part, who)
		if err == nil {
			payout.Account = who
			return payout, nil
		}
		log.Runtime.Warn().Err(err).Str("beneficiary", b.String()).
			Uint64("amount", uint64(part.Amount())).Msg("fee share could not be credited, burning it")
	}

	if err := ledger.Burn(part); err != nil {
		return payout, fmt.Errorf("burn fee share for %s: %w", b, err)
	}
	payout.Burned = true
	return payout, nil
}
