package dkg

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/transport"
)

func TestUnivariateDKGConverges(t *testing.T) {
	const n, thresh = 5, 3
	ids := make([]participant.ID, n)
	for i := range ids {
		ids[i] = participant.Univariate(uint32(i))
	}
	bus := transport.NewBus(ids)

	results := make([]*Result, n)
	errsOut := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := Config{Self: uint32(i), N: n, T: thresh, Trans: bus.For(ids[i])}
			results[i], errsOut[i] = Run(context.Background(), cfg)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errsOut[i])
	}

	g2 := curve.G2()
	for i := 1; i < n; i++ {
		for k := 0; k < thresh; k++ {
			require.True(t, results[0].Public.EvaluateAtG2(curve.XOfIndex(g2, uint32(k))).
				Equal(results[i].Public.EvaluateAtG2(curve.XOfIndex(g2, uint32(k)))))
		}
		require.True(t, results[i].IndividualPublicKey.Equal(
			g2.Point().Mul(results[i].SecretKey, g2.Point().Base())))
	}
}

func TestUnivariateDKGRejectsInvalidDealing(t *testing.T) {
	const n, thresh = 3, 2
	ids := make([]participant.ID, n)
	for i := range ids {
		ids[i] = participant.Univariate(uint32(i))
	}
	bus := transport.NewBus(ids)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Participant 1 sends garbage directly instead of running the honest
	// DEAL step, so participant 0's COLLECT must reject it.
	go func() {
		ep := bus.For(ids[1])
		_ = ep.Broadcast(ctx, []participant.ID{ids[0], ids[2]}, make([]byte, 10))
	}()
	go func() {
		cfg := Config{Self: 2, N: n, T: thresh, Trans: bus.For(ids[2])}
		_, _ = Run(ctx, cfg)
	}()

	cfg := Config{Self: 0, N: n, T: thresh, Trans: bus.For(ids[0])}
	_, err := Run(ctx, cfg)
	require.Error(t, err)
}

func TestBivariateDKGConverges(t *testing.T) {
	const n, m, thresh, threshPrime = 3, 2, 2, 2
	ids := allParticipants(n, m)
	bus := transport.NewBus(ids)

	results := make([]*BiResult, len(ids))
	errsOut := make([]error, len(ids))
	var wg sync.WaitGroup
	for idx, id := range ids {
		wg.Add(1)
		go func(idx int, id participant.ID) {
			defer wg.Done()
			cfg := BiConfig{Self: id, N: n, M: m, T: thresh, TPrime: threshPrime, Trans: bus.For(id)}
			results[idx], errsOut[idx] = RunBivariate(context.Background(), cfg)
		}(idx, id)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errsOut[i])
	}

	g2 := curve.G2()
	zero := g2.Scalar().Zero()
	for i := 1; i < len(ids); i++ {
		require.True(t, results[0].Public.EvaluateAtG2(zero, zero).Equal(results[i].Public.EvaluateAtG2(zero, zero)))
		require.True(t, results[i].IndividualPublicKey.Equal(
			g2.Point().Mul(results[i].SecretKey, g2.Point().Base())))
	}
}
