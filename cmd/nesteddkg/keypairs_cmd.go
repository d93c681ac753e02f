package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/nidkg"
	"github.com/nesteddkg/tbls/store"
)

var generateKeypairsCmd = &cli.Command{
	Name:  "generate-keypairs",
	Usage: "generate NI-DKG forward-secure keypairs for every receiver and write the keypairs file",
	Flags: toArray(folderFlag, verboseFlag, nFlag, mFlag, optimizedFlag, awsFlag, awsBucketFlag, awsRegionFlag),
	Action: func(c *cli.Context) error {
		n := c.Int(nFlag.Name)
		m := c.Int(mFlag.Name)
		count := n
		if m > 0 {
			count = n * m
		}
		if count <= 0 {
			return fmt.Errorf("nesteddkg: --n must be positive")
		}

		stream := curve.DefaultStream()
		pairs := make([]*nidkg.FSKeyPair, count)
		pops := make([][]byte, count)
		for i := 0; i < count; i++ {
			pair, pop, err := nidkg.GenerateFSKeyPair(stream)
			if err != nil {
				return fmt.Errorf("nesteddkg: generating keypair %d: %w", i, err)
			}
			pairs[i] = pair
			pops[i] = pop
		}

		folder := c.String(folderFlag.Name)
		if err := store.CreateSecureFolder(folder); err != nil {
			return fmt.Errorf("nesteddkg: %w", err)
		}
		out := filepath.Join(folder, "keypairs")
		if err := writeKeypairsFile(out, pairs, pops); err != nil {
			return err
		}
		fmt.Printf("wrote %d keypairs to %s\n", count, out)
		return maybeUpload(c, out)
	},
}
