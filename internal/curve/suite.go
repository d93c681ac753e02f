// Package curve wraps the BLS12-381 pairing engine (component A of the
// design): a thin, typed layer over kyber's Fr/G1/G2/GT that fixes the
// domain-separation tags, the canonical x_of_index injection, and random
// scalar sampling for every other package in this module.
//
// The pairing arithmetic itself is delegated entirely to
// github.com/drand/kyber and github.com/drand/kyber-bls12381; nothing here
// reimplements field or curve operations.
package curve

import (
	"crypto/cipher"

	"github.com/drand/kyber"
	bls12381 "github.com/drand/kyber-bls12381"
	"github.com/drand/kyber/pairing"
	"github.com/drand/kyber/util/random"
)

// dstG1 and dstG2 are the RFC 9380 hash-to-curve domain separation tags used
// for this protocol family. They must be identical across all participants.
var (
	dstG1 = []byte("NESTEDDKG_BLS12381G1_XMD:SHA-256_SSWU_RO_NUL_")
	dstG2 = []byte("NESTEDDKG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")
)

// Suite returns the BLS12-381 pairing suite used throughout this module.
// G2 carries public keys and polynomial commitments (96B compressed); G1
// carries signatures (48B compressed).
func Suite() pairing.Suite {
	return bls12381.NewBLS12381SuiteWithDST(dstG1, dstG2)
}

// G1, G2 and GT return the three groups of the suite's pairing.
func G1() kyber.Group { return Suite().G1() }
func G2() kyber.Group { return Suite().G2() }
func GT() kyber.Group { return Suite().GT() }

// Pair computes the pairing e(p1, p2) for p1 in G1 and p2 in G2.
func Pair(p1, p2 kyber.Point) kyber.Point {
	return Suite().Pair(p1, p2)
}

// DefaultStream returns a crypto/rand backed stream suitable for production
// key generation.
func DefaultStream() cipher.Stream {
	return random.New()
}

// RandomScalar samples a uniform element of Fr from stream using the
// library's rejection-sampling Pick, which avoids modulo bias. Pass a
// deterministic stream (e.g. built from a seeded stream cipher) in tests
// that assert against golden values.
func RandomScalar(g kyber.Group, stream cipher.Stream) kyber.Scalar {
	return g.Scalar().Pick(stream)
}

// XOfIndex is the fixed, injective, nonzero map from participant indices to
// Fr required by the design (§4.A). It must be identical across every
// participant and every component that evaluates a polynomial at an index.
// i=0 maps to scalar 1, so the map never collides with the "evaluate at 0"
// convention used to recover a polynomial's free coefficient.
func XOfIndex(g kyber.Group, i uint32) kyber.Scalar {
	return g.Scalar().SetInt64(int64(i) + 1)
}
