package tsign

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nesteddkg/tbls/dkg"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/transport"
)

func TestFanOutSmallMFallsBackToBroadcast(t *testing.T) {
	require.Equal(t, 3, FanOut(4))
	require.Equal(t, 1, FanOut(2))
}

func TestFanOutLargerMUsesHeuristic(t *testing.T) {
	got := FanOut(100)
	require.Greater(t, got, 0)
	require.LessOrEqual(t, got, 99)
}

func runUnivariateDKG(t *testing.T, n, thresh int) []*dkg.Result {
	t.Helper()
	ids := make([]participant.ID, n)
	for i := range ids {
		ids[i] = participant.Univariate(uint32(i))
	}
	bus := transport.NewBus(ids)
	results := make([]*dkg.Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := dkg.Config{Self: uint32(i), N: n, T: thresh, Trans: bus.For(ids[i])}
			r, err := dkg.Run(context.Background(), cfg)
			require.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()
	return results
}

func TestUnivariateSignRecoversVerifiableSignature(t *testing.T) {
	const n, thresh = 5, 3
	dkgResults := runUnivariateDKG(t, n, thresh)

	ids := make([]participant.ID, n)
	for i := range ids {
		ids[i] = participant.Univariate(uint32(i))
	}
	bus := transport.NewBus(ids)
	msg := []byte("hierarchical threshold signatures")

	sigs := make([][]byte, n)
	errsOut := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := Config{
				Self: uint32(i), N: n, T: thresh,
				SecretKey: dkgResults[i].SecretKey,
				Public:    dkgResults[i].Public,
				Trans:     bus.For(ids[i]),
			}
			sigs[i], errsOut[i] = Sign(context.Background(), cfg, msg)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errsOut[i])
		require.NotEmpty(t, sigs[i])
	}
	g2 := curve.G2()
	groupPK := dkgResults[0].Public.EvaluateAtG2(g2.Scalar().Zero())
	require.NoError(t, Verify(groupPK, msg, sigs[0]))
}

func runBivariateDKG(t *testing.T, n, m, thresh, threshPrime int) ([]*dkg.BiResult, []participant.ID) {
	t.Helper()
	ids := make([]participant.ID, 0, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			ids = append(ids, participant.Bivariate(uint32(i), uint32(j)))
		}
	}
	bus := transport.NewBus(ids)
	results := make([]*dkg.BiResult, len(ids))
	var wg sync.WaitGroup
	for idx, id := range ids {
		wg.Add(1)
		go func(idx int, id participant.ID) {
			defer wg.Done()
			cfg := dkg.BiConfig{Self: id, N: n, M: m, T: thresh, TPrime: threshPrime, Trans: bus.For(id)}
			r, err := dkg.RunBivariate(context.Background(), cfg)
			require.NoError(t, err)
			results[idx] = r
		}(idx, id)
	}
	wg.Wait()
	return results, ids
}

func TestBivariateSignRecoversVerifiableSignature(t *testing.T) {
	const n, m, thresh, threshPrime = 4, 3, 3, 2
	dkgResults, ids := runBivariateDKG(t, n, m, thresh, threshPrime)

	bus := transport.NewBus(ids)
	msg := []byte("nested group threshold signature")

	sigs := make([][]byte, len(ids))
	errsOut := make([]error, len(ids))
	var wg sync.WaitGroup
	for idx, id := range ids {
		wg.Add(1)
		go func(idx int, id participant.ID) {
			defer wg.Done()
			cfg := BiConfig{
				Self: id, N: n, M: m, T: thresh, TPrime: threshPrime,
				SecretKey: dkgResults[idx].SecretKey,
				Public:    dkgResults[idx].Public,
				Trans:     bus.For(id),
			}
			sigs[idx], errsOut[idx] = SignBivariate(context.Background(), cfg, msg)
		}(idx, id)
	}
	wg.Wait()

	for idx := range ids {
		require.NoError(t, errsOut[idx])
		require.NotEmpty(t, sigs[idx])
	}
	whole := dkgResults[0].Public.WholePublicKey()
	require.NoError(t, Verify(whole, msg, sigs[0]))
}
