package nidkg

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
)

// RecoverKey decrypts recipient selfIndex's combined ciphertext out of tr
// using sk, yielding the signing share sk_p (§4.F.5). The returned scalar is
// the receiver's individual secret key; its corresponding public key is
// tr.Public.EvaluateAtG2(x_of_index(selfIndex)).
func RecoverKey(sk kyber.Scalar, selfIndex, n int, tr *Transcript) (kyber.Scalar, error) {
	if selfIndex < 0 || selfIndex >= n || len(tr.Ciphertexts) != n {
		return nil, fmt.Errorf("nidkg: %w: recipient %d out of range for %d recipients", errs.ErrSizeMismatch, selfIndex, n)
	}
	share, err := DecryptShare(sk, tr.Ciphertexts[selfIndex], tr.NumDealers)
	if err != nil {
		return nil, fmt.Errorf("nidkg: recover key for recipient %d: %w", selfIndex, err)
	}
	return share, nil
}

// IndividualPublicKey returns the public key recipient selfIndex's recovered
// share must verify against.
func IndividualPublicKey(tr *Transcript, selfIndex int) kyber.Point {
	x := curve.XOfIndex(curve.G2(), uint32(selfIndex))
	return tr.Public.EvaluateAtG2(x)
}
