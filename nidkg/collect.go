package nidkg

import (
	"fmt"

	"github.com/drand/kyber"
	"github.com/hashicorp/go-multierror"

	"github.com/nesteddkg/tbls/internal/errs"
)

// VerifyDealings checks every dealing in dealings against recipientKeys,
// accumulating each failure into a single *multierror.Error rather than
// aborting on the first bad dealer, so one cheating or malformed dealer
// doesn't block recovery when enough honest dealers remain (§4.F.4's
// COLLECT phase). It returns the dealings that passed verification, in
// their original order; if fewer than minDealers passed, it returns the
// accumulated errors as one wrapped error alongside a quorum failure.
func VerifyDealings(dealings []*Dealing, recipientKeys []kyber.Point, minDealers int) ([]*Dealing, error) {
	var failures *multierror.Error
	good := make([]*Dealing, 0, len(dealings))
	for _, d := range dealings {
		if err := VerifyDealing(d, recipientKeys); err != nil {
			failures = multierror.Append(failures, fmt.Errorf("dealer %d: %w", d.DealerIndex, err))
			continue
		}
		good = append(good, d)
	}
	if len(good) < minDealers {
		failures = multierror.Append(failures, fmt.Errorf("nidkg: %w: %d of %d dealings verified, need %d",
			errs.ErrInsufficientShares, len(good), len(dealings), minDealers))
		return nil, failures.ErrorOrNil()
	}
	return good, nil
}

// VerifyBiDealings is the bivariate counterpart of VerifyDealings.
func VerifyBiDealings(dealings []*BiDealing, n, m int, recipientKeys []kyber.Point, minDealers int) ([]*BiDealing, error) {
	var failures *multierror.Error
	good := make([]*BiDealing, 0, len(dealings))
	for _, d := range dealings {
		if err := VerifyBiDealing(d, n, m, recipientKeys); err != nil {
			failures = multierror.Append(failures, fmt.Errorf("dealer %d: %w", d.DealerIndex, err))
			continue
		}
		good = append(good, d)
	}
	if len(good) < minDealers {
		failures = multierror.Append(failures, fmt.Errorf("nidkg: %w: %d of %d dealings verified, need %d",
			errs.ErrInsufficientShares, len(good), len(dealings), minDealers))
		return nil, failures.ErrorOrNil()
	}
	return good, nil
}
