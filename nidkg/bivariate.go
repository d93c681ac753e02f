package nidkg

import (
	"crypto/cipher"
	"fmt"

	"github.com/drand/kyber"
	"github.com/google/uuid"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// BiDealing is the bivariate counterpart of Dealing: recipients are indexed
// by the flat position i*m+j of (group i, member j), n = N*M total.
type BiDealing struct {
	DealerIndex    uint32
	Public         *bipoly.PublicCoefficients
	Ciphertexts    [][NumChunks]ChunkCiphertext
	ShareCommits   []kyber.Point
	ChunkingProofs []*ChunkingProof
	SharingProofs  []*SharingProof
}

func flatIndex(m, i, j int) int { return i*m + j }

// DealBivariate samples a bidegree-(t, tPrime) polynomial and produces a
// BiDealing for every (group, member) recipient in an N x M hierarchy.
// recipientKeys must be ordered by flatIndex(m, i, j).
func DealBivariate(dealerIndex uint32, n, m, t, tPrime int, recipientKeys []kyber.Point, stream cipher.Stream) (*BiDealing, error) {
	total := n * m
	if len(recipientKeys) != total {
		return nil, fmt.Errorf("nidkg: %w: %d recipient keys, want %d", errs.ErrSizeMismatch, len(recipientKeys), total)
	}
	scalarGroup, g2, g1 := curve.G2(), curve.G2(), curve.G1()

	f := bipoly.Random(scalarGroup, t, tPrime, stream)
	defer f.Zeroize()

	d := &BiDealing{
		DealerIndex:    dealerIndex,
		Public:         bipoly.FromPolynomial(g2, f),
		Ciphertexts:    make([][NumChunks]ChunkCiphertext, total),
		ShareCommits:   make([]kyber.Point, total),
		ChunkingProofs: make([]*ChunkingProof, total),
		SharingProofs:  make([]*SharingProof, total),
	}
	for i := 0; i < n; i++ {
		xi := curve.XOfIndex(scalarGroup, uint32(i))
		for j := 0; j < m; j++ {
			xj := curve.XOfIndex(scalarGroup, uint32(j))
			k := flatIndex(m, i, j)
			share := f.EvaluateAt(xi, xj)
			commit := g1.Point().Mul(share, g1.Point().Base())

			cts, ys, err := EncryptShare(recipientKeys[k], share, stream)
			if err != nil {
				return nil, fmt.Errorf("nidkg: dealer %d: encrypt share for (%d,%d): %w", dealerIndex, i, j, err)
			}
			chunkProof, err := ProveChunking(cts, ys, stream)
			if err != nil {
				return nil, fmt.Errorf("nidkg: dealer %d: chunking proof for (%d,%d): %w", dealerIndex, i, j, err)
			}
			sharingProof, err := ProveSharing(recipientKeys[k], cts, ys, commit, stream)
			if err != nil {
				return nil, fmt.Errorf("nidkg: dealer %d: sharing proof for (%d,%d): %w", dealerIndex, i, j, err)
			}

			d.Ciphertexts[k] = cts
			d.ShareCommits[k] = commit
			d.ChunkingProofs[k] = chunkProof
			d.SharingProofs[k] = sharingProof
		}
	}
	return d, nil
}

// VerifyBiDealing is the bivariate counterpart of VerifyDealing.
func VerifyBiDealing(d *BiDealing, n, m int, recipientKeys []kyber.Point) error {
	total := n * m
	if len(recipientKeys) != total || len(d.Ciphertexts) != total || len(d.ShareCommits) != total ||
		len(d.ChunkingProofs) != total || len(d.SharingProofs) != total {
		return fmt.Errorf("nidkg: dealer %d: %w: dealing shaped for a different (N,M)", d.DealerIndex, errs.ErrMalformedDealing)
	}
	scalarGroup := curve.G2()
	for i := 0; i < n; i++ {
		xi := curve.XOfIndex(scalarGroup, uint32(i))
		for j := 0; j < m; j++ {
			xj := curve.XOfIndex(scalarGroup, uint32(j))
			k := flatIndex(m, i, j)
			if err := VerifyChunking(d.Ciphertexts[k], d.ChunkingProofs[k]); err != nil {
				return fmt.Errorf("nidkg: dealer %d: recipient (%d,%d): %w", d.DealerIndex, i, j, err)
			}
			if err := VerifySharing(recipientKeys[k], d.Ciphertexts[k], d.ShareCommits[k], d.SharingProofs[k]); err != nil {
				return fmt.Errorf("nidkg: dealer %d: recipient (%d,%d): %w", d.DealerIndex, i, j, err)
			}
			if err := VerifyShareCommitment(d.ShareCommits[k], d.Public.EvaluateAtG2(xi, xj)); err != nil {
				return fmt.Errorf("nidkg: dealer %d: recipient (%d,%d): %w", d.DealerIndex, i, j, err)
			}
		}
	}
	return nil
}

// BiTranscript is the bivariate counterpart of Transcript.
type BiTranscript struct {
	ID          uuid.UUID // correlates every recipient's recovered share with this one round
	Public      *bipoly.PublicCoefficients
	Ciphertexts [][NumChunks]ChunkCiphertext // indexed by flatIndex(m, i, j)
	NumDealers  int                          // dealers folded into Ciphertexts, needed to size chunk recovery
}

// NewBiTranscript combines already-verified bivariate dealings.
func NewBiTranscript(dealings []*BiDealing, n, m int) (*BiTranscript, error) {
	total := n * m
	if len(dealings) == 0 {
		return nil, fmt.Errorf("nidkg: %w: no dealings to combine", errs.ErrInsufficientShares)
	}
	first := dealings[0]
	if len(first.Ciphertexts) != total {
		return nil, fmt.Errorf("nidkg: dealer %d: %w: %d recipients, want %d", first.DealerIndex, errs.ErrMalformedDealing, len(first.Ciphertexts), total)
	}
	tr := &BiTranscript{
		ID:          uuid.New(),
		Public:      first.Public.Clone(),
		Ciphertexts: make([][NumChunks]ChunkCiphertext, total),
		NumDealers:  len(dealings),
	}
	copy(tr.Ciphertexts, first.Ciphertexts)

	for _, d := range dealings[1:] {
		if len(d.Ciphertexts) != total {
			return nil, fmt.Errorf("nidkg: dealer %d: %w: %d recipients, want %d", d.DealerIndex, errs.ErrMalformedDealing, len(d.Ciphertexts), total)
		}
		if err := tr.Public.AddAssign(d.Public); err != nil {
			return nil, fmt.Errorf("nidkg: combining public coefficients from dealer %d: %w", d.DealerIndex, err)
		}
		for k := 0; k < total; k++ {
			tr.Ciphertexts[k] = AddCiphertexts(tr.Ciphertexts[k], d.Ciphertexts[k])
		}
	}
	return tr, nil
}

// RecoverBiKey decrypts the (i,j) recipient's combined ciphertext out of tr.
func RecoverBiKey(sk kyber.Scalar, i, j, n, m int, tr *BiTranscript) (kyber.Scalar, error) {
	k := flatIndex(m, i, j)
	total := n * m
	if k < 0 || k >= total || len(tr.Ciphertexts) != total {
		return nil, fmt.Errorf("nidkg: %w: recipient (%d,%d) out of range for %dx%d", errs.ErrSizeMismatch, i, j, n, m)
	}
	share, err := DecryptShare(sk, tr.Ciphertexts[k], tr.NumDealers)
	if err != nil {
		return nil, fmt.Errorf("nidkg: recover key for recipient (%d,%d): %w", i, j, err)
	}
	return share, nil
}

// BiIndividualPublicKey returns the public key recipient (i,j)'s recovered
// share must verify against.
func BiIndividualPublicKey(tr *BiTranscript, i, j int) kyber.Point {
	g2 := curve.G2()
	xi := curve.XOfIndex(g2, uint32(i))
	xj := curve.XOfIndex(g2, uint32(j))
	return tr.Public.EvaluateAtG2(xi, xj)
}
