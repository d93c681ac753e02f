// Package tsign implements the hierarchical threshold signing engine (§4.G):
// a flat (n,t) protocol for the univariate scheme, and a two-stage
// intra-group/inter-group protocol for the bivariate scheme. Partial-sign
// and final-verify are delegated to github.com/drand/kyber/sign/bls, which
// hashes messages to G1 and checks the BLS pairing equation; combination
// uses this module's own Lagrange interpolation in poly/bipoly, since
// kyber/sign/tbls's Recover is built around kyber/share's flat PriShare/
// PubPoly types and does not generalize to the two-stage bivariate
// combination this scheme needs.
package tsign

import (
	"context"
	"fmt"

	"github.com/drand/kyber"
	kyberbls "github.com/drand/kyber/sign/bls"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/internal/log"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/poly"
	"github.com/nesteddkg/tbls/transport"
)

// Config parameterizes one participant's univariate signing round.
type Config struct {
	Self      uint32
	N, T      int
	SecretKey kyber.Scalar
	Public    *poly.PublicCoefficients // joint coefficients from the DKG
	Trans     transport.Transport
	Log       log.Logger
}

// Sign computes this participant's partial signature on msg, exchanges
// partials with its peers over Trans, and returns the combined,
// group-verified BLS signature, encoded with the G1 point's MarshalBinary
// (kyber-bls12381's 48-byte compressed form, see curve.Suite); partials and
// the result are never sent in the 96-byte uncompressed form.
func Sign(ctx context.Context, cfg Config, msg []byte) ([]byte, error) {
	logger := cfg.Log
	if logger == nil {
		logger = log.DefaultLogger()
	}
	g1, g2 := curve.G1(), curve.G2()
	scheme := kyberbls.NewSchemeOnG1(curve.Suite())

	mySig, err := scheme.Sign(cfg.SecretKey, msg)
	if err != nil {
		return nil, fmt.Errorf("tsign: sign: %w", err)
	}

	self := participant.Univariate(cfg.Self)
	recipients := make([]participant.ID, 0, cfg.N-1)
	for i := 0; i < cfg.N; i++ {
		if uint32(i) != cfg.Self {
			recipients = append(recipients, participant.Univariate(uint32(i)))
		}
	}
	if err := cfg.Trans.Broadcast(ctx, recipients, mySig); err != nil {
		return nil, fmt.Errorf("tsign: broadcast partial: %w", err)
	}

	myPoint := g1.Point()
	if err := myPoint.UnmarshalBinary(mySig); err != nil {
		return nil, fmt.Errorf("tsign: unmarshal own partial: %w", err)
	}
	samples := []poly.Sample{{X: curve.XOfIndex(g2, cfg.Self), Y: myPoint}}

	for len(samples) < cfg.T {
		m, err := cfg.Trans.Recv(ctx)
		if err != nil {
			return nil, fmt.Errorf("tsign: %w: %v", errs.ErrPeerDisconnect, err)
		}
		idx := m.From.Index()
		xi := curve.XOfIndex(g2, idx)
		share := cfg.Public.EvaluateAtG2(xi)
		if err := scheme.Verify(share, msg, m.Data); err != nil {
			logger.Warnw("dropping invalid partial signature", "from", m.From, "err", err)
			continue
		}
		point := g1.Point()
		if err := point.UnmarshalBinary(m.Data); err != nil {
			logger.Warnw("dropping unparseable partial signature", "from", m.From, "err", err)
			continue
		}
		samples = append(samples, poly.Sample{X: xi, Y: point})
	}

	combinedPoint, err := poly.InterpolateG1(g1, g2, samples, cfg.T)
	if err != nil {
		return nil, fmt.Errorf("tsign: interpolate: %w", err)
	}
	combined, err := combinedPoint.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("tsign: marshal combined signature: %w", err)
	}

	groupPK := cfg.Public.EvaluateAtG2(g2.Scalar().Zero())
	if err := scheme.Verify(groupPK, msg, combined); err != nil {
		return nil, fmt.Errorf("tsign: %w: combined signature failed group verification", errs.ErrInvalidSignature)
	}
	logger.Infow("signature assembled", "participant", self)
	return combined, nil
}

// Verify checks a combined BLS signature against the whole group public key.
func Verify(groupPublicKey kyber.Point, msg, sig []byte) error {
	scheme := kyberbls.NewSchemeOnG1(curve.Suite())
	if err := scheme.Verify(groupPublicKey, msg, sig); err != nil {
		return fmt.Errorf("tsign: %w: %v", errs.ErrInvalidSignature, err)
	}
	return nil
}
