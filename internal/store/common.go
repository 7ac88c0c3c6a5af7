package store

import "errors"

var (
	ErrReadOnly    = errors.New("store is read-only")
	ErrStoreClosed = errors.New("store is closed")
)

// Prefix constants for all store types
const (
	prefixBalance byte = iota + 1
	prefixNonce
	prefixIssuance
	prefixMultiplier
	prefixBlock
)

// PrefixToString converts a prefix byte to a string
func PrefixToString(p byte) string {
	switch p {
	case prefixBalance:
		return "balance"
	case prefixNonce:
		return "nonce"
	case prefixIssuance:
		return "issuance"
	case prefixMultiplier:
		return "multiplier"
	case prefixBlock:
		return "block"
	default:
		return "unknown"
	}
}

// makeKey creates a key from a prefix and an identifier
func makeKey(prefix byte, id []byte) []byte {
	key := make([]byte, 1+len(id))
	key[0] = prefix
	copy(key[1:], id)
	return key
}
