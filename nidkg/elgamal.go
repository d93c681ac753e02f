package nidkg

import (
	"crypto/cipher"
	"fmt"
	"math/big"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// ChunkCiphertext is one 16-bit chunk's ElGamal ciphertext, (g1^y, g1^m *
// pk^y), per §4.F.2.
type ChunkCiphertext struct {
	C1, C2 kyber.Point
}

// chunksOf splits the integer value of s into NumChunks big-endian 16-bit
// words. kyber's Scalar interface exposes no integer accessor beyond
// MarshalBinary, so this goes through math/big to do the splitting; no
// library in the example pack offers scalar-to-chunk decomposition, and
// hand-rolling it without big.Int would mean re-deriving exactly the
// arithmetic math/big already provides (see DESIGN.md).
func chunksOf(s kyber.Scalar) ([NumChunks]uint16, error) {
	var chunks [NumChunks]uint16
	buf, err := s.MarshalBinary()
	if err != nil {
		return chunks, fmt.Errorf("nidkg: marshal scalar for chunking: %w", err)
	}
	if len(buf) > MessageBytes {
		return chunks, fmt.Errorf("nidkg: %w: scalar encodes to %d bytes, want at most %d", errs.ErrSizeMismatch, len(buf), MessageBytes)
	}
	be := reverseBytes(buf) // kyber's canonical scalar encoding is little-endian
	v := new(big.Int).SetBytes(be)
	mask := big.NewInt(ChunkSize)
	tmp := new(big.Int)
	rem := new(big.Int)
	for k := NumChunks - 1; k >= 0; k-- {
		tmp.DivMod(v, mask, rem)
		chunks[k] = uint16(rem.Uint64())
		v.Set(tmp)
	}
	return chunks, nil
}

// reassemble recombines NumChunks base-ChunkSize digits into an Fr scalar
// via Horner's method (chunk[0] most significant), mirroring the Horner
// evaluation used throughout poly/bipoly. Digits need not be < ChunkSize:
// Horner's recurrence Σ_k chunk[k]·ChunkSize^(NumChunks-1-k) is linear, so
// summing several dealers' chunk digits before calling this (as
// DecryptShare does for a combined transcript) yields the same scalar as
// summing each dealer's fully-reassembled share, evaluated mod the scalar
// field's order throughout.
func reassemble(g kyber.Group, chunks [NumChunks]uint32) kyber.Scalar {
	base := g.Scalar().SetInt64(ChunkSize)
	acc := g.Scalar().SetInt64(int64(chunks[0]))
	for k := 1; k < NumChunks; k++ {
		acc = g.Scalar().Mul(acc, base)
		acc = g.Scalar().Add(acc, g.Scalar().SetInt64(int64(chunks[k])))
	}
	return acc
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// EncryptShare chunks share into NumChunks 16-bit words and ElGamal-encrypts
// each under pk, returning the ciphertexts and the per-chunk randomness
// (needed by the sharing proof, §4.F.2-3).
func EncryptShare(pk kyber.Point, share kyber.Scalar, stream cipher.Stream) ([NumChunks]ChunkCiphertext, [NumChunks]kyber.Scalar, error) {
	var cts [NumChunks]ChunkCiphertext
	var ys [NumChunks]kyber.Scalar
	g1 := curve.G1()
	chunks, err := chunksOf(share)
	if err != nil {
		return cts, ys, err
	}
	for k := 0; k < NumChunks; k++ {
		y := curve.RandomScalar(g1, stream)
		c1 := g1.Point().Mul(y, g1.Point().Base())
		gm := g1.Point().Mul(g1.Scalar().SetInt64(int64(chunks[k])), g1.Point().Base())
		c2 := g1.Point().Add(gm, g1.Point().Mul(y, pk))
		cts[k] = ChunkCiphertext{C1: c1, C2: c2}
		ys[k] = y
	}
	return cts, ys, nil
}

// DecryptShare decrypts every chunk ciphertext against sk, recovering each
// plaintext via the shared baby-step giant-step table in GT, then
// reassembles the NumChunks recovered digits into the Fr share value
// (§4.F.5).
//
// numDealers is the number of dealers whose ciphertexts were homomorphically
// summed into cts (1 for a single dealer's dealing, d for a transcript
// combining d dealers). AddCiphertexts sums ciphertexts before decryption,
// so each recovered digit is itself a sum of up to numDealers independent
// chunk values and can range over [0, numDealers*ChunkSize) rather than
// [0, ChunkSize) — the search bound passed to Table.Solve must scale with
// the dealer count, or a combined digit above ChunkSize-1 (overwhelmingly
// the common case once numDealers > 1) wrongly fails with
// ErrDecryptionRangeExceeded. reassemble's digits are uint32 rather than
// uint16 for the same reason: a summed digit no longer fits in 16 bits.
func DecryptShare(sk kyber.Scalar, cts [NumChunks]ChunkCiphertext, numDealers int) (kyber.Scalar, error) {
	if numDealers < 1 {
		return nil, fmt.Errorf("nidkg: %w: numDealers must be at least 1, got %d", errs.ErrSizeMismatch, numDealers)
	}
	g1, g2 := curve.G1(), curve.G2()
	g2Base := g2.Point().Base()
	tbl := sharedTable()
	bound := uint32(numDealers) * ChunkSize
	var chunks [NumChunks]uint32
	for k, ct := range cts {
		blinding := g1.Point().Mul(sk, ct.C1)
		gm := g1.Point().Sub(ct.C2, blinding)
		target := curve.Pair(gm, g2Base)
		m, err := tbl.Solve(target, bound)
		if err != nil {
			return nil, fmt.Errorf("nidkg: chunk %d: %w", k, err)
		}
		chunks[k] = m
	}
	return reassemble(g1, chunks), nil
}

// AddCiphertexts sums two same-shaped chunk ciphertext arrays elementwise,
// the ElGamal-homomorphic combination step transcript creation relies on
// (§4.F.4).
func AddCiphertexts(a, b [NumChunks]ChunkCiphertext) [NumChunks]ChunkCiphertext {
	g1 := curve.G1()
	var out [NumChunks]ChunkCiphertext
	for k := 0; k < NumChunks; k++ {
		out[k] = ChunkCiphertext{
			C1: g1.Point().Add(a[k].C1, b[k].C1),
			C2: g1.Point().Add(a[k].C2, b[k].C2),
		}
	}
	return out
}
