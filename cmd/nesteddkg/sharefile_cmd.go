package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nesteddkg/tbls/bipoly"
	"github.com/nesteddkg/tbls/dealing"
	"github.com/nesteddkg/tbls/internal/curve"
	"github.com/nesteddkg/tbls/poly"
	"github.com/nesteddkg/tbls/store"
)

// shareFileCmd precomputes a single dealer's worth of shares (coefficients
// plus per-recipient shares, per §4.D) without running the interactive or
// non-interactive DKG protocols, so threshold-signature benchmarks can skip
// straight to signing with a known-good key.
var shareFileCmd = &cli.Command{
	Name:  "share-file",
	Usage: "generate one dealing's worth of shares and write the {uni,bi}variate_shares file",
	Flags: toArray(folderFlag, verboseFlag, nFlag, mFlag, tFlag, tPrimeFlag, awsFlag, awsBucketFlag, awsRegionFlag),
	Action: func(c *cli.Context) error {
		n := c.Int(nFlag.Name)
		m := c.Int(mFlag.Name)
		t := c.Int(tFlag.Name)
		if n <= 0 || t <= 0 {
			return fmt.Errorf("nesteddkg: --n and --t must be positive")
		}

		folder := c.String(folderFlag.Name)
		if err := store.CreateSecureFolder(folder); err != nil {
			return fmt.Errorf("nesteddkg: %w", err)
		}

		g2 := curve.G2()
		stream := curve.DefaultStream()

		if m <= 0 {
			p := poly.Random(g2, t, stream)
			defer p.Zeroize()
			d := dealing.NewDealing(g2, g2, p, n)
			raw, err := d.Serialize()
			if err != nil {
				return fmt.Errorf("nesteddkg: serialize univariate shares: %w", err)
			}
			out := filepath.Join(folder, "univariate_shares")
			if err := os.WriteFile(out, raw, 0o600); err != nil {
				return fmt.Errorf("nesteddkg: write %s: %w", out, err)
			}
			fmt.Printf("wrote univariate shares (n=%d, t=%d) to %s\n", n, t, out)
			return maybeUpload(c, out)
		}

		tPrime := c.Int(tPrimeFlag.Name)
		if tPrime <= 0 {
			return fmt.Errorf("nesteddkg: --p is required when --m is set")
		}
		p := bipoly.Random(g2, t, tPrime, stream)
		defer p.Zeroize()
		d := dealing.NewBiDealing(g2, g2, p, n, m)
		raw, err := d.Serialize()
		if err != nil {
			return fmt.Errorf("nesteddkg: serialize bivariate shares: %w", err)
		}
		out := filepath.Join(folder, "bivariate_shares")
		if err := os.WriteFile(out, raw, 0o600); err != nil {
			return fmt.Errorf("nesteddkg: write %s: %w", out, err)
		}
		fmt.Printf("wrote bivariate shares (n=%d, m=%d, t=%d, t'=%d) to %s\n", n, m, t, tPrime, out)
		return maybeUpload(c, out)
	},
}
