package nidkg

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

const sharingDomain = "nested-dkg-sharing-v1"

// SharingProof ties a recipient's chunked ciphertexts to the dealer's public
// coefficients (§4.F.2-3): it proves, without revealing the share, that the
// weighted recombination of the NumChunks ciphertexts is an ElGamal
// encryption of the same exponent committed to by ShareCommitG1, and that
// ShareCommitG1 in turn shares its discrete log with the share's G2
// commitment (checked separately via VerifyShareCommitment, a pairing
// equation rather than a sigma-protocol).
type SharingProof struct {
	T1, T2 kyber.Point
	Z      kyber.Scalar
}

// weightedCombine folds NumChunks ciphertexts into one using the same
// base-65536 Horner weighting as reassemble, producing an ElGamal
// ciphertext of the full (unchunked) share under combined randomness
// Y = Σ weight_k * y_k.
func weightedCombine(cts [NumChunks]ChunkCiphertext) (c1, c2 kyber.Point) {
	g1 := curve.G1()
	base := g1.Scalar().SetInt64(ChunkSize)
	c1 = g1.Point().Set(cts[NumChunks-1].C1)
	c2 = g1.Point().Set(cts[NumChunks-1].C2)
	weight := g1.Scalar().One()
	for k := NumChunks - 2; k >= 0; k-- {
		weight = g1.Scalar().Mul(weight, base)
		c1 = g1.Point().Add(c1, g1.Point().Mul(weight, cts[k].C1))
		c2 = g1.Point().Add(c2, g1.Point().Mul(weight, cts[k].C2))
	}
	return c1, c2
}

// combinedRandomness computes Σ weight_k * y_k with the same weighting as
// weightedCombine, the witness ProveSharing needs.
func combinedRandomness(ys [NumChunks]kyber.Scalar) kyber.Scalar {
	g1 := curve.G1()
	base := g1.Scalar().SetInt64(ChunkSize)
	acc := g1.Scalar().Set(ys[NumChunks-1])
	weight := g1.Scalar().One()
	for k := NumChunks - 2; k >= 0; k-- {
		weight = g1.Scalar().Mul(weight, base)
		acc = g1.Scalar().Add(acc, g1.Scalar().Mul(weight, ys[k]))
	}
	return acc
}

// ProveSharing proves cts (with known chunk randomness ys) encrypts, under
// pk, the same exponent committed to by shareCommitG1 = g1^share.
func ProveSharing(pk kyber.Point, cts [NumChunks]ChunkCiphertext, ys [NumChunks]kyber.Scalar, shareCommitG1 kyber.Point, stream cipher.Stream) (*SharingProof, error) {
	g1 := curve.G1()
	y := combinedRandomness(ys)
	w := curve.RandomScalar(g1, stream)

	t1 := g1.Point().Mul(w, g1.Point().Base())
	t2 := g1.Point().Mul(w, pk)

	c1, c2 := weightedCombine(cts)
	d := g1.Point().Sub(c2, shareCommitG1)

	elems, err := marshalAll(g1.Point().Base(), pk, c1, d, t1, t2)
	if err != nil {
		return nil, err
	}
	c := challenge(g1, sharingDomain, elems...)
	z := g1.Scalar().Add(w, g1.Scalar().Mul(c, y))
	return &SharingProof{T1: t1, T2: t2, Z: z}, nil
}

// VerifySharing checks proof against the public ciphertexts cts and the
// dealer's declared G1 share commitment.
func VerifySharing(pk kyber.Point, cts [NumChunks]ChunkCiphertext, shareCommitG1 kyber.Point, proof *SharingProof) error {
	g1 := curve.G1()
	c1, c2 := weightedCombine(cts)
	d := g1.Point().Sub(c2, shareCommitG1)

	elems, err := marshalAll(g1.Point().Base(), pk, c1, d, proof.T1, proof.T2)
	if err != nil {
		return err
	}
	c := challenge(g1, sharingDomain, elems...)

	lhs1 := g1.Point().Mul(proof.Z, g1.Point().Base())
	rhs1 := g1.Point().Add(proof.T1, g1.Point().Mul(c, c1))
	if !lhs1.Equal(rhs1) {
		return fmt.Errorf("nidkg: %w: sharing proof failed (g1 side)", errs.ErrInvalidDealing)
	}
	lhs2 := g1.Point().Mul(proof.Z, pk)
	rhs2 := g1.Point().Add(proof.T2, g1.Point().Mul(c, d))
	if !lhs2.Equal(rhs2) {
		return fmt.Errorf("nidkg: %w: sharing proof failed (pk side)", errs.ErrInvalidDealing)
	}
	return nil
}

// VerifyShareCommitment checks that shareCommitG1 = g1^s and
// publicCommitG2 = g2^s share the same discrete log s, via the pairing
// identity e(g1^s, g2) == e(g1, g2^s). This is the cross-group half of the
// sharing proof (§4.F.3's "verify the sharing equation ... in the pairing
// group"); it needs no sigma-protocol of its own since bilinearity already
// makes the check publicly verifiable.
func VerifyShareCommitment(shareCommitG1, publicCommitG2 kyber.Point) error {
	g1, g2 := curve.G1(), curve.G2()
	left := curve.Pair(shareCommitG1, g2.Point().Base())
	right := curve.Pair(g1.Point().Base(), publicCommitG2)
	if !left.Equal(right) {
		return fmt.Errorf("nidkg: %w: share commitment inconsistent with public coefficients", errs.ErrInvalidDealing)
	}
	return nil
}

func marshalAll(pts ...kyber.Point) ([][]byte, error) {
	out := make([][]byte, len(pts))
	for i, p := range pts {
		b, err := p.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("nidkg: marshal point %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}
