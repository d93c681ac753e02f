package tsign

import (
	"context"
	"fmt"
	"math"

	"github.com/drand/kyber"
	kyberbls "github.com/drand/kyber/sign/bls"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/internal/errs"
	"github.com/nesteddkg/tbls/internal/log"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/poly"
	"github.com/nesteddkg/tbls/transport"
)

// BiConfig parameterizes one participant's two-stage bivariate signing round.
type BiConfig struct {
	Self      participant.ID // (group, member) identity
	N, M      int            // N groups of M members
	T         int            // inter-group threshold
	TPrime    int            // intra-group threshold
	SecretKey kyber.Scalar
	Public    *bipoly.PublicCoefficients
	Trans     transport.Transport
	Log       log.Logger

	// fanOut overrides the Stage-2 peer count for tests; nil uses FanOut.
	fanOut func(m int) int
}

// FanOut returns the number of other groups a participant forwards its
// Stage-2 group signature to: m-1 for m <= 4, otherwise ⌈m·(log₁₀ m + 1)⌉
// capped at m-1. The formula is never below m, so the cap always applies
// and the result is m-1 (every other group) for every m >= 1.
func FanOut(m int) int {
	if m <= 4 {
		return m - 1
	}
	n := int(math.Ceil(float64(m) * (math.Log10(float64(m)) + 1)))
	if n > m-1 {
		n = m - 1
	}
	return n
}

// SignBivariate drives Stage 1 (intra-group combination into a group
// signature) followed by Stage 2 (inter-group combination into the final,
// whole-system signature), per §4.G.
func SignBivariate(ctx context.Context, cfg BiConfig, msg []byte) ([]byte, error) {
	logger := cfg.Log
	if logger == nil {
		logger = log.DefaultLogger()
	}
	g1, g2 := curve.G1(), curve.G2()
	scheme := kyberbls.NewSchemeOnG1(curve.Suite())
	fanOut := cfg.fanOut
	if fanOut == nil {
		fanOut = FanOut
	}

	// Stage 1: intra-group.
	mySig, err := scheme.Sign(cfg.SecretKey, msg)
	if err != nil {
		return nil, fmt.Errorf("tsign: sign: %w", err)
	}
	groupPeers := make([]participant.ID, 0, cfg.M-1)
	for j := 0; j < cfg.M; j++ {
		if uint32(j) != cfg.Self.Member() {
			groupPeers = append(groupPeers, participant.Bivariate(cfg.Self.Group(), uint32(j)))
		}
	}
	if err := cfg.Trans.Broadcast(ctx, groupPeers, mySig); err != nil {
		return nil, fmt.Errorf("tsign: broadcast stage-1 partial: %w", err)
	}

	myPoint := g1.Point()
	if err := myPoint.UnmarshalBinary(mySig); err != nil {
		return nil, fmt.Errorf("tsign: unmarshal own stage-1 partial: %w", err)
	}
	stage1 := []poly.Sample{{X: curve.XOfIndex(g2, cfg.Self.Member()), Y: myPoint}}
	xi := curve.XOfIndex(g2, cfg.Self.Group())
	groupPK := cfg.Public.GroupPublicKey(xi)

	// A Stage-2 group signature can arrive before this participant finishes
	// Stage 1 (peers race independently); such messages are deferred here
	// rather than dropped, and drained first once Stage 2 begins.
	var deferredStage2 []transport.Message

	for len(stage1) < cfg.TPrime {
		m, err := cfg.Trans.Recv(ctx)
		if err != nil {
			return nil, fmt.Errorf("tsign: %w: %v", errs.ErrPeerDisconnect, err)
		}
		if !m.From.SameGroup(cfg.Self) {
			deferredStage2 = append(deferredStage2, m)
			continue
		}
		xj := curve.XOfIndex(g2, m.From.Member())
		share := cfg.Public.IndividualPublicKey(xi, xj)
		if err := scheme.Verify(share, msg, m.Data); err != nil {
			logger.Warnw("dropping invalid stage-1 partial", "from", m.From, "err", err)
			continue
		}
		point := g1.Point()
		if err := point.UnmarshalBinary(m.Data); err != nil {
			logger.Warnw("dropping unparseable stage-1 partial", "from", m.From, "err", err)
			continue
		}
		stage1 = append(stage1, poly.Sample{X: xj, Y: point})
	}

	groupSigPoint, err := poly.InterpolateG1(g1, g2, stage1, cfg.TPrime)
	if err != nil {
		return nil, fmt.Errorf("tsign: stage-1 interpolate: %w", err)
	}
	groupSig, err := groupSigPoint.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("tsign: marshal group signature: %w", err)
	}
	if err := scheme.Verify(groupPK, msg, groupSig); err != nil {
		return nil, fmt.Errorf("tsign: %w: group %d signature failed verification", errs.ErrInvalidSignature, cfg.Self.Group())
	}
	logger.Debugw("stage-1 group signature assembled", "group", cfg.Self.Group())

	// Stage 2: inter-group.
	otherGroups := make([]uint32, 0, cfg.N-1)
	for k := 0; k < cfg.N; k++ {
		if uint32(k) != cfg.Self.Group() {
			otherGroups = append(otherGroups, uint32(k))
		}
	}
	targets := sampleGroups(otherGroups, fanOut(cfg.N))
	// Conservative fan-out: forward to every member of each target group,
	// not just a representative, so any of them can independently assemble
	// Stage 2 (§4.G: "a conservative implementation may broadcast to all
	// out-of-group peers").
	recipients := make([]participant.ID, 0, len(targets)*cfg.M)
	for _, k := range targets {
		for j := 0; j < cfg.M; j++ {
			recipients = append(recipients, participant.Bivariate(k, uint32(j)))
		}
	}
	if err := cfg.Trans.Broadcast(ctx, recipients, groupSig); err != nil {
		return nil, fmt.Errorf("tsign: broadcast stage-2 group signature: %w", err)
	}

	allGroupSigs := map[uint32]kyber.Point{cfg.Self.Group(): groupSigPoint}
	acceptGroupSig := func(m transport.Message) {
		k := m.From.Group()
		if _, seen := allGroupSigs[k]; seen {
			return // first arrival wins
		}
		pk := cfg.Public.GroupPublicKey(curve.XOfIndex(g2, k))
		if err := scheme.Verify(pk, msg, m.Data); err != nil {
			logger.Warnw("dropping invalid group signature", "group", k, "err", err)
			return
		}
		point := g1.Point()
		if err := point.UnmarshalBinary(m.Data); err != nil {
			logger.Warnw("dropping unparseable group signature", "group", k, "err", err)
			return
		}
		allGroupSigs[k] = point
	}
	for _, m := range deferredStage2 {
		acceptGroupSig(m)
	}
	for len(allGroupSigs) < cfg.T {
		m, err := cfg.Trans.Recv(ctx)
		if err != nil {
			return nil, fmt.Errorf("tsign: %w: %v", errs.ErrPeerDisconnect, err)
		}
		acceptGroupSig(m)
	}

	samples := make([]poly.Sample, 0, len(allGroupSigs))
	for k, point := range allGroupSigs {
		samples = append(samples, poly.Sample{X: curve.XOfIndex(g2, k), Y: point})
	}
	finalPoint, err := poly.InterpolateG1(g1, g2, samples, cfg.T)
	if err != nil {
		return nil, fmt.Errorf("tsign: stage-2 interpolate: %w", err)
	}
	final, err := finalPoint.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("tsign: marshal final signature: %w", err)
	}

	whole := cfg.Public.WholePublicKey()
	if err := scheme.Verify(whole, msg, final); err != nil {
		return nil, fmt.Errorf("tsign: %w: final signature failed verification", errs.ErrInvalidSignature)
	}
	logger.Infow("final signature assembled", "participant", cfg.Self)
	return final, nil
}

// sampleGroups deterministically takes up to n groups from candidates. A
// conservative production implementation should shuffle with a CSPRNG
// before truncating; fixed-order selection here keeps tests reproducible.
// With FanOut as the count, every candidate group is selected.
func sampleGroups(candidates []uint32, n int) []uint32 {
	if n >= len(candidates) || n < 0 {
		return candidates
	}
	return candidates[:n]
}
