package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/nesteddkg/tbls/dkg"
	"github.com/nesteddkg/tbls/participant"
	"github.com/nesteddkg/tbls/store"
	"github.com/nesteddkg/tbls/transport"
)

// runUnivariateDKG simulates every one of the n participants in-process over
// an in-memory transport.Bus (real process-to-process transport is outside
// this module's scope; see transport/memory.go) and returns each one's
// result, so the caller can time and report on a single participant's view.
func runUnivariateDKG(ctx context.Context, n, t int) ([]*dkg.Result, error) {
	ids := make([]participant.ID, n)
	for i := range ids {
		ids[i] = participant.Univariate(uint32(i))
	}
	bus := transport.NewBus(ids)
	runID := uuid.New()
	results := make([]*dkg.Result, n)
	errsOut := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := dkg.Config{Self: uint32(i), N: n, T: t, Trans: bus.For(ids[i]), RunID: runID}
			results[i], errsOut[i] = dkg.Run(ctx, cfg)
		}(i)
	}
	wg.Wait()
	for i, err := range errsOut {
		if err != nil {
			return nil, fmt.Errorf("nesteddkg: participant %d: %w", i, err)
		}
	}
	return results, nil
}

var univariateDKGCmd = &cli.Command{
	Name:  "univariate-dkg",
	Usage: "run the interactive univariate DKG for all n participants and report participant i's result",
	Flags: toArray(folderFlag, verboseFlag, iFlag, nFlag, tFlag, awsFlag, awsBucketFlag, awsRegionFlag),
	Action: func(c *cli.Context) error {
		i, n, t := c.Int(iFlag.Name), c.Int(nFlag.Name), c.Int(tFlag.Name)
		if i < 0 || i >= n {
			return fmt.Errorf("nesteddkg: --i must be in [0, n)")
		}
		if err := store.CreateSecureFolder(c.String(folderFlag.Name)); err != nil {
			return fmt.Errorf("nesteddkg: %w", err)
		}
		start := time.Now()
		results, err := runUnivariateDKG(context.Background(), n, t)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Printf("participant %d ready: individual public key %x\n", i, mustMarshal(results[i].IndividualPublicKey))

		sharePath := filepath.Join(c.String(folderFlag.Name), fmt.Sprintf("share-%d.toml", i))
		if err := store.SaveUnivariateShare(sharePath, &store.UnivariateShare{
			Index: i, SecretKey: results[i].SecretKey, Public: results[i].Public, RunID: results[i].RunID,
		}); err != nil {
			return err
		}

		path, err := appendResult(c.String(folderFlag.Name), "univariate-dkg",
			"n,t,i,duration_ms", fmt.Sprintf("%d,%d,%d,%d", n, t, i, elapsed.Milliseconds()))
		if err != nil {
			return err
		}
		return maybeUpload(c, path)
	},
}

func runBivariateDKGAll(ctx context.Context, n, m, t, tPrime int) ([]*dkg.BiResult, []participant.ID, error) {
	ids := make([]participant.ID, 0, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			ids = append(ids, participant.Bivariate(uint32(i), uint32(j)))
		}
	}
	bus := transport.NewBus(ids)
	runID := uuid.New()
	results := make([]*dkg.BiResult, len(ids))
	errsOut := make([]error, len(ids))
	var wg sync.WaitGroup
	for idx, id := range ids {
		wg.Add(1)
		go func(idx int, id participant.ID) {
			defer wg.Done()
			cfg := dkg.BiConfig{Self: id, N: n, M: m, T: t, TPrime: tPrime, Trans: bus.For(id), RunID: runID}
			results[idx], errsOut[idx] = dkg.RunBivariate(ctx, cfg)
		}(idx, id)
	}
	wg.Wait()
	for idx, err := range errsOut {
		if err != nil {
			return nil, nil, fmt.Errorf("nesteddkg: participant %s: %w", ids[idx], err)
		}
	}
	return results, ids, nil
}

var bivariateDKGCmd = &cli.Command{
	Name:  "bivariate-dkg",
	Usage: "run the interactive bivariate DKG for all n*m participants and report participant (i,j)'s result",
	Flags: toArray(folderFlag, verboseFlag, iFlag, jFlag, nFlag, mFlag, tFlag, tPrimeFlag, awsFlag, awsBucketFlag, awsRegionFlag),
	Action: func(c *cli.Context) error {
		i, j := c.Int(iFlag.Name), c.Int(jFlag.Name)
		n, m, t, tPrime := c.Int(nFlag.Name), c.Int(mFlag.Name), c.Int(tFlag.Name), c.Int(tPrimeFlag.Name)
		if i < 0 || i >= n || j < 0 || j >= m {
			return fmt.Errorf("nesteddkg: --i must be in [0, n) and --j in [0, m)")
		}
		if err := store.CreateSecureFolder(c.String(folderFlag.Name)); err != nil {
			return fmt.Errorf("nesteddkg: %w", err)
		}
		start := time.Now()
		results, ids, err := runBivariateDKGAll(context.Background(), n, m, t, tPrime)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		self := participant.Bivariate(uint32(i), uint32(j))
		var idx int
		for k, id := range ids {
			if id.Equal(self) {
				idx = k
				break
			}
		}
		fmt.Printf("participant (%d,%d) ready: individual public key %x\n", i, j, mustMarshal(results[idx].IndividualPublicKey))

		sharePath := filepath.Join(c.String(folderFlag.Name), fmt.Sprintf("share-%d-%d.toml", i, j))
		if err := store.SaveBivariateShare(sharePath, &store.BivariateShare{
			Group: i, Member: j, SecretKey: results[idx].SecretKey, Public: results[idx].Public, RunID: results[idx].RunID,
		}); err != nil {
			return err
		}

		path, err := appendResult(c.String(folderFlag.Name), "bivariate-dkg",
			"n,m,t,tprime,i,j,duration_ms", fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d", n, m, t, tPrime, i, j, elapsed.Milliseconds()))
		if err != nil {
			return err
		}
		return maybeUpload(c, path)
	},
}

func mustMarshal(p interface{ MarshalBinary() ([]byte, error) }) []byte {
	b, err := p.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}
