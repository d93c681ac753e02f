package nidkg

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"
	"github.com/drand/kyber/sign/schnorr"
	"github.com/drand/kyber/util/random"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// schnorrSuite adapts a bare kyber.Group to the RandomStream-carrying suite
// github.com/drand/kyber/sign/schnorr.NewScheme expects, mirroring
// _examples/drand-drand/crypto/schemes.go's own schnorrSuite wrapper.
type schnorrSuite struct {
	kyber.Group
}

func (s *schnorrSuite) RandomStream() cipher.Stream { return random.New() }

// FSKeyPair is a receiver's forward-secure ElGamal key pair (§4.F.1).
// Encryption happens in G1 so that chunk ciphertexts combine additively with
// PublicCoefficients commitments through the pairing at recovery time.
//
// The full Groth20 construction evolves SecretKey forward through a
// hierarchical key tree keyed by epoch, destroying prior-epoch material so
// past transcripts stay secret even if a later secret key leaks. This
// implementation models a single fixed epoch (SPEC_FULL.md's resolution of
// the open question on FS key evolution scope): UpdateEpoch is kept as an
// explicit extension point rather than silently omitted.
type FSKeyPair struct {
	SecretKey kyber.Scalar
	PublicKey kyber.Point
}

// GenerateFSKeyPair samples a fresh key pair and a proof of possession of
// SecretKey, built with github.com/drand/kyber/sign/schnorr the same way the
// teacher builds its DKG authentication scheme.
func GenerateFSKeyPair(stream cipher.Stream) (*FSKeyPair, []byte, error) {
	g1 := curve.G1()
	sk := curve.RandomScalar(g1, stream)
	pk := g1.Point().Mul(sk, g1.Point().Base())
	pop, err := schnorr.Sign(&schnorrSuite{g1}, sk, pkDomain(pk))
	if err != nil {
		return nil, nil, fmt.Errorf("nidkg: sign proof of possession: %w", err)
	}
	return &FSKeyPair{SecretKey: sk, PublicKey: pk}, pop, nil
}

// VerifyPoP checks a receiver's proof of possession of pk.
func VerifyPoP(pk kyber.Point, pop []byte) error {
	g1 := curve.G1()
	if err := schnorr.Verify(&schnorrSuite{g1}, pk, pkDomain(pk), pop); err != nil {
		return fmt.Errorf("nidkg: %w: proof of possession: %v", errs.ErrInvalidDealing, err)
	}
	return nil
}

func pkDomain(pk kyber.Point) []byte {
	b, _ := pk.MarshalBinary()
	return append([]byte("nesteddkg-fskey-pop-v1:"), b...)
}

// UpdateEpoch advances the forward-secure key to a new epoch, destroying
// material for every prior epoch. Not implemented: this module models a
// single fixed epoch (see the type doc comment).
func (k *FSKeyPair) UpdateEpoch(epoch uint32) error {
	return errs.ErrNotImplemented
}

// Zeroize scrubs the secret key.
func (k *FSKeyPair) Zeroize() {
	if k.SecretKey != nil {
		k.SecretKey.Zero()
	}
	k.SecretKey = nil
}
