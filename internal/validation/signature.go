package validation

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/eigerco/txcore/internal/crypto/ed25519"
)

const DefaultSignatureCacheSize = 4096

// SignatureCheck verifies the signer's signature over the signed payload.
// Outcomes are cached by extrinsic hash, so an extrinsic validated by the
// pool is not verified again when the block applies it.
type SignatureCheck struct {
	cache *lru.Cache
}

// NewSignatureCheck creates the stage with a cache of size entries, no cache
// when size is not positive.
func NewSignatureCheck(size int) *SignatureCheck {
	s := &SignatureCheck{}
	if size > 0 {
		s.cache, _ = lru.New(size) // Never errors for positive size.
	}
	return s
}

func (*SignatureCheck) Name() string { return "signature" }

func (s *SignatureCheck) Validate(ctx *Context) error {
	ok, err := s.verify(ctx)
	if err != nil {
		return reject(BadProof, "signed payload: %w", err)
	}
	if !ok {
		return reject(BadProof, "invalid signature by %s", ctx.Extrinsic.Signer)
	}
	return nil
}

func (s *SignatureCheck) verify(ctx *Context) (bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx.Hash); ok {
			return v.(bool), nil
		}
	}
	payload, err := ctx.Extrinsic.SignedPayload()
	if err != nil {
		return false, err
	}
	ok := ed25519.Verify(ctx.Extrinsic.Signer.PublicKey(), payload, ctx.Extrinsic.Signature[:])
	if s.cache != nil {
		s.cache.Add(ctx.Hash, ok)
	}
	return ok, nil
}
