package curve

import "github.com/drand/kyber"

// Secret wraps a kyber.Scalar that holds private key material (a signing
// key share, a dealer's polynomial coefficient, an ElGamal randomizer). It
// exists so every place in this module that carries secret scalars has a
// single, auditable point where the value is scrubbed at end of life.
//
// Secret is not safe for concurrent use; each owner should hold its own
// instance and zeroize it before releasing it.
type Secret struct {
	v kyber.Scalar
}

// NewSecret wraps v. v should not be used directly by the caller afterwards.
func NewSecret(v kyber.Scalar) *Secret {
	return &Secret{v: v}
}

// Scalar returns the wrapped scalar. The returned value aliases the
// receiver's internal state; callers must not retain it past a call to
// Zeroize.
func (s *Secret) Scalar() kyber.Scalar {
	if s == nil {
		return nil
	}
	return s.v
}

// Zeroize overwrites the wrapped scalar in place and drops the reference.
// Concrete kyber scalar implementations mutate their receiver on Zero(), so
// this clears the backing field-element bytes rather than merely replacing
// the Go-level pointer.
func (s *Secret) Zeroize() {
	if s == nil || s.v == nil {
		return
	}
	s.v.Zero()
	s.v = nil
}
