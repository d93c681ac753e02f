package nidkg

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

const chunkingDomain = "nested-dkg-chunking-v1"

// ChunkingProof is a batched Schnorr proof of knowledge of the per-chunk
// ElGamal randomness y_0..y_15 used to build a recipient's ciphertexts
// (§4.F.2): it binds the dealer to the exact randomness it claims, so a
// ciphertext cannot be replaced after the fact.
//
// A full Groth20 chunking proof additionally shows in zero knowledge that
// every plaintext lies in [0, 2^16) without revealing it algebraically;
// reproducing that disjunctive range argument is out of scope here. This
// proof's knowledge-of-randomness guarantee is combined with the fact that
// an honest dealer only ever encrypts values chunksOf already bounds to
// [0, 2^16), and with the receiver's own bounded BSGS recovery (which fails
// closed, never accepting an out-of-range chunk) — see DESIGN.md.
type ChunkingProof struct {
	T [NumChunks]kyber.Point // commitments g1^w_k
	Z [NumChunks]kyber.Scalar
}

// ProveChunking produces a ChunkingProof for cts, given the per-chunk
// randomness ys used to build them.
func ProveChunking(cts [NumChunks]ChunkCiphertext, ys [NumChunks]kyber.Scalar, stream cipher.Stream) (*ChunkingProof, error) {
	g1 := curve.G1()
	var ws [NumChunks]kyber.Scalar
	var proof ChunkingProof
	elems := make([][]byte, 0, 2*NumChunks)
	for k := 0; k < NumChunks; k++ {
		ws[k] = curve.RandomScalar(g1, stream)
		proof.T[k] = g1.Point().Mul(ws[k], g1.Point().Base())
		c1b, err := cts[k].C1.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("nidkg: marshal c1[%d]: %w", k, err)
		}
		tb, err := proof.T[k].MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("nidkg: marshal t[%d]: %w", k, err)
		}
		elems = append(elems, c1b, tb)
	}
	c := challenge(g1, chunkingDomain, elems...)
	for k := 0; k < NumChunks; k++ {
		cy := g1.Scalar().Mul(c, ys[k])
		proof.Z[k] = g1.Scalar().Add(ws[k], cy)
	}
	return &proof, nil
}

// VerifyChunking checks proof against the public ciphertexts cts.
func VerifyChunking(cts [NumChunks]ChunkCiphertext, proof *ChunkingProof) error {
	g1 := curve.G1()
	elems := make([][]byte, 0, 2*NumChunks)
	for k := 0; k < NumChunks; k++ {
		c1b, err := cts[k].C1.MarshalBinary()
		if err != nil {
			return fmt.Errorf("nidkg: marshal c1[%d]: %w", k, err)
		}
		tb, err := proof.T[k].MarshalBinary()
		if err != nil {
			return fmt.Errorf("nidkg: marshal t[%d]: %w", k, err)
		}
		elems = append(elems, c1b, tb)
	}
	c := challenge(g1, chunkingDomain, elems...)
	for k := 0; k < NumChunks; k++ {
		lhs := g1.Point().Mul(proof.Z[k], g1.Point().Base())
		rhs := g1.Point().Add(proof.T[k], g1.Point().Mul(c, cts[k].C1))
		if !lhs.Equal(rhs) {
			return fmt.Errorf("nidkg: %w: chunking proof failed at chunk %d", errs.ErrInvalidDealing, k)
		}
	}
	return nil
}
