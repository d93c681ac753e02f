// Package dkg implements the interactive DKG driver (§4.E): every
// participant deals a random polynomial, broadcasts it, and combines all
// received dealings locally into a signing key and joint public
// coefficients. It is the flat (n,t) counterpart to nidkg's non-interactive
// protocol.
package dkg

import (
	"context"
	"fmt"

	"github.com/drand/kyber"
	"github.com/google/uuid"

	"github.com/nesteddkg/tbls/dealing"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/internal/log"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/poly"
	"github.com/nesteddkg/tbls/transport"
)

// Config parameterizes one participant's run of the univariate DKG.
type Config struct {
	Self  uint32 // this participant's flat index, in [0, N)
	N     int    // total participant count (also dealer count)
	T     int    // reconstruction threshold
	Trans transport.Transport
	Log   log.Logger

	// RunID correlates every participant's log lines for one DKG run across
	// the module's concurrent, per-participant goroutines. The caller
	// generates one RunID per run and passes it to every participant's
	// Config; if left the zero UUID, Run mints its own (useful for tests
	// that call Run directly without a shared caller).
	RunID uuid.UUID

	// SkipVerification disables the per-dealing consistency check
	// (g2^share =? PC.EvaluateAtG2(x_self)). It exists only for benchmark
	// harnesses measuring the DKG's uncontested-path cost; production
	// callers must leave it false, since a single malicious dealer then
	// silently corrupts the group key (§4.E).
	SkipVerification bool
}

// Result is what a participant holds once the DKG reaches READY.
type Result struct {
	SecretKey           kyber.Scalar
	IndividualPublicKey kyber.Point
	Public              *poly.PublicCoefficients
	RunID               uuid.UUID
}

// Run drives one participant through START → DEAL → COLLECT → COMBINE →
// READY and returns its share of the resulting threshold key.
func Run(ctx context.Context, cfg Config) (*Result, error) {
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
	self := participant.Univariate(cfg.Self)

	// DEAL
	f := poly.Random(scalarGroup, cfg.T, curve.DefaultStream())
	defer f.Zeroize()
	own := dealing.NewDealing(scalarGroup, g2, f, cfg.N)
	raw, err := own.Serialize()
	if err != nil {
		return nil, fmt.Errorf("dkg: serialize own dealing: %w", err)
	}

	recipients := make([]participant.ID, 0, cfg.N-1)
	for i := 0; i < cfg.N; i++ {
		if uint32(i) == cfg.Self {
			continue
		}
		recipients = append(recipients, participant.Univariate(uint32(i)))
	}
	if err := cfg.Trans.Broadcast(ctx, recipients, raw); err != nil {
		return nil, fmt.Errorf("dkg: broadcast dealing: %w", err)
	}
	logger.Debugw("dealt", "participant", self, "recipients", len(recipients))

	// COLLECT: N-1 peer dealings plus our own.
	mySecret := scalarGroup.Scalar().Set(own.Shares[cfg.Self])
	myPublic := own.Public
	for received := 0; received < cfg.N-1; received++ {
		msg, err := cfg.Trans.Recv(ctx)
		if err != nil {
			return nil, fmt.Errorf("dkg: %w: %v", errs.ErrPeerDisconnect, err)
		}
		d, err := dealing.Deserialize(scalarGroup, g2, msg.Data, cfg.T, cfg.N)
		if err != nil {
			return nil, fmt.Errorf("dkg: dealing from %s: %w", msg.From, err)
		}
		share := d.Shares[cfg.Self]
		if !cfg.SkipVerification {
			x := curve.XOfIndex(scalarGroup, cfg.Self)
			want := g2.Point().Mul(share, g2.Point().Base())
			if !want.Equal(d.Public.EvaluateAtG2(x)) {
				return nil, fmt.Errorf("dkg: dealing from %s: %w", msg.From, errs.ErrInvalidDealing)
			}
		}

		// COMBINE (streaming: fold each dealing in as it arrives)
		mySecret = scalarGroup.Scalar().Add(mySecret, share)
		if err := myPublic.AddAssign(d.Public); err != nil {
			return nil, fmt.Errorf("dkg: combining public coefficients from %s: %w", msg.From, err)
		}
	}

	// READY
	ipk := g2.Point().Mul(mySecret, g2.Point().Base())
	logger.Infow("ready", "participant", self)
	return &Result{SecretKey: mySecret, IndividualPublicKey: ipk, Public: myPublic, RunID: runID}, nil
}
