// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish copies generated documents to their final destination:
// a local directory or an S3 bucket.
package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/pkg/types"
)

// Publisher stores the file at localPath under name and returns where it
// ended up.
type Publisher interface {
	Publish(ctx context.Context, localPath, name string) (string, error)
}

// New returns the publisher for cfg.Target: an S3 publisher for
// s3://bucket/prefix URLs, a directory publisher otherwise. An empty target
// returns nil.
func New(ctx context.Context, cfg types.PublishConfig) (Publisher, error) {
	switch {
	case cfg.Target == "":
		return nil, nil
	case strings.HasPrefix(cfg.Target, "s3://"):
		return NewS3Publisher(ctx, cfg.Target, cfg.Region)
	}
	return &DirPublisher{Dir: cfg.Target}, nil
}

// DirPublisher copies documents into Dir, creating it when missing.
type DirPublisher struct {
	Dir string
}

// Publish copies localPath to Dir/name through a temp file and a rename, so
// readers never see a partial document.
func (p *DirPublisher) Publish(_ context.Context, localPath, name string) (dest string, err error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating publish directory: %w", err)
	}
	dest = filepath.Join(p.Dir, filepath.Base(name))

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(p.Dir, ".publish-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, src); err != nil {
		return "", fmt.Errorf("copying to %s: %w", dest, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", err
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("renaming to %s: %w", dest, err)
	}
	return dest, nil
}

// ParseS3URL splits s3://bucket/prefix into its bucket and key prefix. The
// prefix has no leading or trailing slash.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 url %q: missing s3:// scheme", raw)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: missing bucket", raw)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// uploader is the part of manager.Uploader the publisher uses.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Publisher uploads documents to a bucket under a key prefix.
type S3Publisher struct {
	Bucket string
	Prefix string

	up uploader
}

// NewS3Publisher builds a publisher for target from the default AWS
// credential chain. A non-empty region overrides the configured one.
func NewS3Publisher(ctx context.Context, target, region string) (*S3Publisher, error) {
	bucket, prefix, err := ParseS3URL(target)
	if err != nil {
		return nil, err
	}
	var opts []func(*awscfg.LoadOptions) error
	if region != "" {
		opts = append(opts, awscfg.WithRegion(region))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Publisher{
		Bucket: bucket,
		Prefix: prefix,
		up:     manager.NewUploader(s3.NewFromConfig(cfg)),
	}, nil
}

// Key is the object key of name.
func (p *S3Publisher) Key(name string) string {
	return path.Join(p.Prefix, filepath.Base(name))
}

// Publish uploads localPath and returns its s3:// URL.
func (p *S3Publisher) Publish(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	key := p.Key(name)
	out, err := p.up.Upload(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(p.Bucket),
		Key:                aws.String(key),
		Body:               f,
		ContentType:        aws.String(docx.MediaType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filepath.Base(name))),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to s3://%s/%s: %w", p.Bucket, key, err)
	}

	logger := logging.GetLogger("publish")
	logger.Info().
		Str("bucket", p.Bucket).
		Str("key", key).
		Str("location", out.Location).
		Msg("document uploaded")
	return fmt.Sprintf("s3://%s/%s", p.Bucket, key), nil
}
