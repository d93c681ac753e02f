package nidkg

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/poly"
)

// Dealing is one dealer's non-interactive contribution (§4.F.2): a public
// commitment to its random polynomial, plus, for every recipient, a chunked
// ElGamal ciphertext of that recipient's share, a G1 commitment to the share
// in the clear (used only by the sharing proof and its pairing check, never
// the share itself), and the two NIZK proofs binding them together.
type Dealing struct {
	DealerIndex    uint32
	Public         *poly.PublicCoefficients
	Ciphertexts    [][NumChunks]ChunkCiphertext
	ShareCommits   []kyber.Point
	ChunkingProofs []*ChunkingProof
	SharingProofs  []*SharingProof
}

// Deal samples a fresh degree-(t-1) polynomial and produces a Dealing for n
// recipients, encrypting recipient i's share under recipientKeys[i].
func Deal(dealerIndex uint32, t, n int, recipientKeys []kyber.Point, stream cipher.Stream) (*Dealing, error) {
	if len(recipientKeys) != n {
		return nil, fmt.Errorf("nidkg: %w: %d recipient keys, want %d", errs.ErrSizeMismatch, len(recipientKeys), n)
	}
	scalarGroup, g2, g1 := curve.G2(), curve.G2(), curve.G1()

	f := poly.Random(scalarGroup, t, stream)
	defer f.Zeroize()

	d := &Dealing{
		DealerIndex:    dealerIndex,
		Public:         poly.FromPolynomial(g2, f),
		Ciphertexts:    make([][NumChunks]ChunkCiphertext, n),
		ShareCommits:   make([]kyber.Point, n),
		ChunkingProofs: make([]*ChunkingProof, n),
		SharingProofs:  make([]*SharingProof, n),
	}
	for i := 0; i < n; i++ {
		x := curve.XOfIndex(scalarGroup, uint32(i))
		share := f.EvaluateAt(x)
		commit := g1.Point().Mul(share, g1.Point().Base())

		cts, ys, err := EncryptShare(recipientKeys[i], share, stream)
		if err != nil {
			return nil, fmt.Errorf("nidkg: dealer %d: encrypt share for recipient %d: %w", dealerIndex, i, err)
		}
		chunkProof, err := ProveChunking(cts, ys, stream)
		if err != nil {
			return nil, fmt.Errorf("nidkg: dealer %d: chunking proof for recipient %d: %w", dealerIndex, i, err)
		}
		sharingProof, err := ProveSharing(recipientKeys[i], cts, ys, commit, stream)
		if err != nil {
			return nil, fmt.Errorf("nidkg: dealer %d: sharing proof for recipient %d: %w", dealerIndex, i, err)
		}

		d.Ciphertexts[i] = cts
		d.ShareCommits[i] = commit
		d.ChunkingProofs[i] = chunkProof
		d.SharingProofs[i] = sharingProof
	}
	return d, nil
}

// VerifyDealing checks d against the recipient keys it was produced for:
// each recipient's chunking proof, sharing proof, and the pairing-based
// cross-group consistency between its share commitment and the dealer's
// public coefficients (§4.F.3). Proof-of-possession of the recipient keys
// themselves is verified once per key, outside this per-dealing check (see
// VerifyReceiverKeys), since it does not change from dealing to dealing.
func VerifyDealing(d *Dealing, recipientKeys []kyber.Point) error {
	n := len(recipientKeys)
	if len(d.Ciphertexts) != n || len(d.ShareCommits) != n || len(d.ChunkingProofs) != n || len(d.SharingProofs) != n {
		return fmt.Errorf("nidkg: dealer %d: %w: dealing shaped for a different recipient count", d.DealerIndex, errs.ErrMalformedDealing)
	}
	scalarGroup := curve.G2()
	for i := 0; i < n; i++ {
		if err := VerifyChunking(d.Ciphertexts[i], d.ChunkingProofs[i]); err != nil {
			return fmt.Errorf("nidkg: dealer %d: recipient %d: %w", d.DealerIndex, i, err)
		}
		if err := VerifySharing(recipientKeys[i], d.Ciphertexts[i], d.ShareCommits[i], d.SharingProofs[i]); err != nil {
			return fmt.Errorf("nidkg: dealer %d: recipient %d: %w", d.DealerIndex, i, err)
		}
		x := curve.XOfIndex(scalarGroup, uint32(i))
		if err := VerifyShareCommitment(d.ShareCommits[i], d.Public.EvaluateAtG2(x)); err != nil {
			return fmt.Errorf("nidkg: dealer %d: recipient %d: %w", d.DealerIndex, i, err)
		}
	}
	return nil
}

// VerifyReceiverKeys checks every receiver's proof of possession once; it
// must run before any dealing referencing these keys is trusted.
func VerifyReceiverKeys(keys []kyber.Point, pops [][]byte) error {
	if len(keys) != len(pops) {
		return fmt.Errorf("nidkg: %w: %d keys, %d proofs", errs.ErrSizeMismatch, len(keys), len(pops))
	}
	for i, pk := range keys {
		if err := VerifyPoP(pk, pops[i]); err != nil {
			return fmt.Errorf("nidkg: receiver %d: %w", i, err)
		}
	}
	return nil
}
