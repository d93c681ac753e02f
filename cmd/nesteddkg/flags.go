package main

import (
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nesteddkg/tbls/store"
)

func defaultFolder() string {
	return filepath.Join(store.HomeFolder(), ".nesteddkg")
}

var folderFlag = &cli.StringFlag{
	Name:  "folder",
	Value: defaultFolder(),
	Usage: "folder to keep generated key and share files, with absolute path",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "accepted by every command but not read by any; the log level is unchanged",
}

var awsFlag = &cli.BoolFlag{
	Name:  "aws",
	Usage: "upload this command's output artifact to S3 after it completes",
}

var awsBucketFlag = &cli.StringFlag{
	Name:  "aws-bucket",
	Usage: "S3 bucket to upload to; required if --aws is set",
}

var awsRegionFlag = &cli.StringFlag{
	Name:  "aws-region",
	Usage: "S3 region (optional; defaults to the SDK's own resolution)",
}

var nFlag = &cli.IntFlag{
	Name:     "n",
	Usage:    "total participant count (or group count, for bivariate schemes)",
	Required: true,
}

var mFlag = &cli.IntFlag{
	Name:  "m",
	Usage: "members per group (bivariate schemes only)",
}

var tFlag = &cli.IntFlag{
	Name:     "t",
	Usage:    "reconstruction threshold",
	Required: true,
}

var tPrimeFlag = &cli.IntFlag{
	Name:  "p",
	Usage: "intra-group threshold T' (bivariate schemes only)",
}

var iFlag = &cli.IntFlag{
	Name:     "i",
	Usage:    "this participant's index (or group index, for bivariate schemes)",
	Required: true,
}

var jFlag = &cli.IntFlag{
	Name:  "j",
	Usage: "this participant's member index within its group (bivariate schemes only)",
}

var dFlag = &cli.IntFlag{
	Name:     "d",
	Usage:    "number of dealers in the non-interactive DKG",
	Required: true,
}

var isDealerFlag = &cli.BoolFlag{
	Name:  "is-dealer",
	Usage: "label this participant dealer+receiver in the output when its index is below d (dealers are always indices 0..d-1)",
	Value: true,
}

var noDealerFlag = &cli.BoolFlag{
	Name:  "no-dealer",
	Usage: "shorthand for --is-dealer=false",
}

var optimizedFlag = &cli.BoolFlag{
	Name:  "optimized",
	Usage: "accepted but not read; NI-DKG decryption always uses the shared process-wide table",
}

func resolveIsDealer(c *cli.Context) bool {
	if c.Bool(noDealerFlag.Name) {
		return false
	}
	return c.Bool(isDealerFlag.Name)
}
