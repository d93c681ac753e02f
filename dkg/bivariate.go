package dkg

import (
	"context"
	"fmt"

	"github.com/drand/kyber"
	"github.com/google/uuid"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/dealing"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/internal/log"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/transport"
)

// BiConfig parameterizes one participant's run of the bivariate DKG. Every
// one of the N*M participants deals (dealer count = N*M, matching the
// interactive flow's "all participants are dealers" rule in §4.E), even
// though each dealing has bidegree (T, TPrime): this hierarchy still uses a
// flat dealer set, it only changes the polynomial's shape and the
// per-recipient share indexing to (group, member).
type BiConfig struct {
	Self    participant.ID // this participant's (group, member) identity
	N, M    int            // N groups of M members each
	T       int            // inter-group threshold
	TPrime  int            // intra-group threshold
	Trans   transport.Transport
	Log     log.Logger

	// RunID correlates every participant's log lines for one DKG run, as in
	// univariate Config.
	RunID uuid.UUID

	SkipVerification bool
}

// BiResult is what a participant holds once the bivariate DKG reaches READY.
type BiResult struct {
	SecretKey           kyber.Scalar
	IndividualPublicKey kyber.Point
	Public              *bipoly.PublicCoefficients
	RunID               uuid.UUID
}

// RunBivariate drives one (i,j) participant through the bivariate analogue
// of Run: dealers are every (i,j) pair, DEAL evaluates a bidegree-(T,T')
// polynomial at every (group, member) pair, and COMBINE sums the shares
// landing on this participant's own (i,j) cell.
func RunBivariate(ctx context.Context, cfg BiConfig) (*BiResult, error) {
	g2 := curve.G2()
	scalarGroup := g2
	runID := cfg.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.DefaultLogger()
	}
	logger = logger.With("run", runID)

	f := bipoly.Random(scalarGroup, cfg.T, cfg.TPrime, curve.DefaultStream())
	defer f.Zeroize()
	own := dealing.NewBiDealing(scalarGroup, g2, f, cfg.N, cfg.M)
	raw, err := own.Serialize()
	if err != nil {
		return nil, fmt.Errorf("dkg: serialize own bidealing: %w", err)
	}

	all := allParticipants(cfg.N, cfg.M)
	recipients := make([]participant.ID, 0, len(all)-1)
	for _, id := range all {
		if !id.Equal(cfg.Self) {
			recipients = append(recipients, id)
		}
	}
	if err := cfg.Trans.Broadcast(ctx, recipients, raw); err != nil {
		return nil, fmt.Errorf("dkg: broadcast bidealing: %w", err)
	}
	logger.Debugw("dealt", "participant", cfg.Self, "recipients", len(recipients))

	mySecret := scalarGroup.Scalar().Set(own.Shares[cfg.Self.Group()][cfg.Self.Member()])
	myPublic := own.Public
	dealerCount := len(all)
	for received := 0; received < dealerCount-1; received++ {
		msg, err := cfg.Trans.Recv(ctx)
		if err != nil {
			return nil, fmt.Errorf("dkg: %w: %v", errs.ErrPeerDisconnect, err)
		}
		d, err := dealing.DeserializeBivariate(scalarGroup, g2, msg.Data, cfg.T, cfg.TPrime, cfg.N, cfg.M)
		if err != nil {
			return nil, fmt.Errorf("dkg: bidealing from %s: %w", msg.From, err)
		}
		share := d.Shares[cfg.Self.Group()][cfg.Self.Member()]
		if !cfg.SkipVerification {
			xi := curve.XOfIndex(scalarGroup, cfg.Self.Group())
			xj := curve.XOfIndex(scalarGroup, cfg.Self.Member())
			want := g2.Point().Mul(share, g2.Point().Base())
			if !want.Equal(d.Public.EvaluateAtG2(xi, xj)) {
				return nil, fmt.Errorf("dkg: bidealing from %s: %w", msg.From, errs.ErrInvalidDealing)
			}
		}

		mySecret = scalarGroup.Scalar().Add(mySecret, share)
		if err := myPublic.AddAssign(d.Public); err != nil {
			return nil, fmt.Errorf("dkg: combining public coefficients from %s: %w", msg.From, err)
		}
	}

	ipk := g2.Point().Mul(mySecret, g2.Point().Base())
	logger.Infow("ready", "participant", cfg.Self)
	return &BiResult{SecretKey: mySecret, IndividualPublicKey: ipk, Public: myPublic, RunID: runID}, nil
}

func allParticipants(n, m int) []participant.ID {
	ids := make([]participant.ID, 0, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			ids = append(ids, participant.Bivariate(uint32(i), uint32(j)))
		}
	}
	return ids
}
