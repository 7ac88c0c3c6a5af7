package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

type Hash [HashSize]byte

// HashData hashes the input data using blake2b-256
func HashData(data []byte) Hash {
	return blake2b.Sum256(data)
}

// HashData512 hashes the input data using blake2b-512
func HashData512(data []byte) [64]byte {
	return blake2b.Sum512(data)
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// HashFromHex parses a 0x-prefixed or bare hex string into a Hash
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Hash{}, fmt.Errorf("decode hash: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("decode hash: expected %d bytes, got %d", HashSize, len(b))
	}
	return Hash(b), nil
}
