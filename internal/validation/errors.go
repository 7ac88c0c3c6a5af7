package validation

import (
	"errors"
	"fmt"
)

// ErrInternalInconsistency means a staged mutation failed after every stage
// accepted the extrinsic. State may be partially updated and the block must
// be abandoned.
var ErrInternalInconsistency = errors.New("internal inconsistency")

// Class groups rejection reasons by what they depend on.
type Class uint8

const (
	// StaticRejection reasons depend only on the extrinsic and chain constants.
	StaticRejection Class = iota
	// StateDependentRejection reasons may change as state changes.
	StateDependentRejection
)

func (c Class) String() string {
	if c == StaticRejection {
		return "static"
	}
	return "state-dependent"
}

// Reason is why a stage rejected an extrinsic.
type Reason uint8

const (
	BadProof Reason = iota + 1
	StaleVersion
	BadGenesis
	AncientBirthBlock
	FutureBirthBlock
	NonceTooLow
	NonceTooHigh
	ExhaustsResources
	InsufficientBalance
	GasLimitExceeded
	LedgerFailure
	// BadFormat means the encoded extrinsic could not be decoded.
	BadFormat
	// NonceExhausted means the signer's nonce is at its maximum.
	NonceExhausted
)

var reasonNames = map[Reason]string{
	BadProof:            "bad_proof",
	StaleVersion:        "stale_version",
	BadGenesis:          "bad_genesis",
	AncientBirthBlock:   "ancient_birth_block",
	FutureBirthBlock:    "future_birth_block",
	NonceTooLow:         "nonce_too_low",
	NonceTooHigh:        "nonce_too_high",
	ExhaustsResources:   "exhausts_resources",
	InsufficientBalance: "insufficient_balance",
	GasLimitExceeded:    "gas_limit_exceeded",
	LedgerFailure:       "ledger_failure",
	BadFormat:           "bad_format",
	NonceExhausted:      "nonce_exhausted",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

func (r Reason) Class() Class {
	switch r {
	case BadProof, StaleVersion, BadGenesis, AncientBirthBlock, FutureBirthBlock, BadFormat:
		return StaticRejection
	default:
		return StateDependentRejection
	}
}

// Retryable reports whether the same extrinsic may become valid later.
func (r Reason) Retryable() bool {
	return r.Class() == StateDependentRejection && r != NonceTooLow && r != NonceExhausted
}

// Error lets a bare Reason be used as an errors.Is target.
func (r Reason) Error() string {
	return r.String()
}

// Rejection is returned when a stage refuses an extrinsic.
type Rejection struct {
	Stage  string
	Reason Reason
	Err    error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s rejected: %s: %v", r.Stage, r.Reason, r.Err)
	}
	return fmt.Sprintf("%s rejected: %s", r.Stage, r.Reason)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Is matches the rejection's Reason.
func (r *Rejection) Is(target error) bool {
	reason, ok := target.(Reason)
	return ok && reason == r.Reason
}

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Err: fmt.Errorf(format, args...)}
}

func ledgerFailure(err error) *Rejection {
	return &Rejection{Reason: LedgerFailure, Err: err}
}

// ReasonOf extracts the rejection reason from err.
func ReasonOf(err error) (Reason, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return 0, false
}
