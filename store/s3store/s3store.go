// Package s3store uploads command output artifacts (key pairs, share
// files, benchmark result lines) to an S3 bucket when a run is invoked with
// --aws.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Uploader wraps a ready-to-use S3 session for a fixed bucket and region.
type Uploader struct {
	bucket   string
	uploader *s3manager.Uploader
}

// New builds an Uploader for bucket in region (region may be empty to use
// the SDK's default resolution), failing fast if no usable AWS credentials
// are available rather than deferring the failure to the first upload.
func New(bucket, region string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3store: bucket name is required")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("s3store: creating aws session: %w", err)
	}
	if _, err := sess.Config.Credentials.Get(); err != nil {
		return nil, fmt.Errorf("s3store: checking credentials: %w", err)
	}
	return &Uploader{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// UploadFile reads localPath and uploads it to key in the configured
// bucket, returning the object's location on success.
func (u *Uploader) UploadFile(ctx context.Context, key, localPath string) (string, error) {
	fd, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3store: open %s: %w", localPath, err)
	}
	defer fd.Close()

	out, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   fd,
	})
	if err != nil {
		return "", fmt.Errorf("s3store: upload %s: %w", key, err)
	}
	return out.Location, nil
}

// UploadBytes uploads data directly to key without touching the local
// filesystem, for callers that already hold the artifact in memory (e.g. a
// freshly-serialized result line).
func (u *Uploader) UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	out, err := u.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("s3store: upload %s: %w", key, err)
	}
	return out.Location, nil
}
