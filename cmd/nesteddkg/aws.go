package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nesteddkg/tbls/store/s3store"
)

// maybeUpload uploads localPath under its base name if --aws is set,
// failing fast (before any S3 I/O) if --aws was set without a bucket.
func maybeUpload(c *cli.Context, localPath string) error {
	if !c.Bool(awsFlag.Name) {
		return nil
	}
	bucket := c.String(awsBucketFlag.Name)
	if bucket == "" {
		return fmt.Errorf("nesteddkg: --aws requires --aws-bucket")
	}
	uploader, err := s3store.New(bucket, c.String(awsRegionFlag.Name))
	if err != nil {
		return err
	}
	loc, err := uploader.UploadFile(context.Background(), filepath.Base(localPath), localPath)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %s to %s\n", localPath, loc)
	return nil
}
