package nidkg

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/poly"
)

// Transcript is the public output of a completed NI-DKG round (§4.F.4): the
// sum of every valid dealer's public coefficients, plus, per recipient, the
// elementwise sum of every valid dealer's ciphertexts (ElGamal's additive
// homomorphism carries the per-chunk randomness sum along for free).
type Transcript struct {
	ID          uuid.UUID // correlates every recipient's recovered share with this one round
	Public      *poly.PublicCoefficients
	Ciphertexts [][NumChunks]ChunkCiphertext // indexed by recipient
	NumDealers  int                          // dealers folded into Ciphertexts, needed to size chunk recovery
}

// NewTranscript combines already-verified dealings into a Transcript. n is
// the recipient count every dealing must agree on.
func NewTranscript(dealings []*Dealing, n int) (*Transcript, error) {
	if len(dealings) == 0 {
		return nil, fmt.Errorf("nidkg: %w: no dealings to combine", errs.ErrInsufficientShares)
	}
	first := dealings[0]
	if len(first.Ciphertexts) != n {
		return nil, fmt.Errorf("nidkg: dealer %d: %w: %d recipients, want %d", first.DealerIndex, errs.ErrMalformedDealing, len(first.Ciphertexts), n)
	}
	tr := &Transcript{
		ID:          uuid.New(),
		Public:      first.Public.Clone(),
		Ciphertexts: make([][NumChunks]ChunkCiphertext, n),
		NumDealers:  len(dealings),
	}
	copy(tr.Ciphertexts, first.Ciphertexts)

	for _, d := range dealings[1:] {
		if len(d.Ciphertexts) != n {
			return nil, fmt.Errorf("nidkg: dealer %d: %w: %d recipients, want %d", d.DealerIndex, errs.ErrMalformedDealing, len(d.Ciphertexts), n)
		}
		if err := tr.Public.AddAssign(d.Public); err != nil {
			return nil, fmt.Errorf("nidkg: combining public coefficients from dealer %d: %w", d.DealerIndex, err)
		}
		for i := 0; i < n; i++ {
			tr.Ciphertexts[i] = AddCiphertexts(tr.Ciphertexts[i], d.Ciphertexts[i])
		}
	}
	return tr, nil
}
