// Package bucket retrieves completed bucket exports from object storage.
package bucket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

// Downloader abstracts the S3 transfer manager so it can be replaced in tests.
type Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, opts ...func(*manager.Downloader)) (int64, error)
}

// Fetcher downloads exported raster objects from a storage bucket.
type Fetcher struct {
	region        string
	creds         aws.CredentialsProvider
	newDownloader func(aws.Config) Downloader
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRegion sets the bucket's region.
func WithRegion(region string) Option {
	return func(f *Fetcher) {
		if region != "" {
			f.region = region
		}
	}
}

// WithStaticCredentials supplies a fixed access key pair.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(f *Fetcher) {
		f.creds = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	}
}

// WithCredentialsProvider supplies a custom credentials provider.
func WithCredentialsProvider(p aws.CredentialsProvider) Option {
	return func(f *Fetcher) {
		f.creds = p
	}
}

// NewFetcher constructs a Fetcher with the provided options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		region: defaultRegion,
		newDownloader: func(cfg aws.Config) Downloader {
			return manager.NewDownloader(s3.NewFromConfig(cfg))
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ObjectKey returns the key under which an export task writes its artifact:
// "<prefix>/<name>.tif", or "<name>.tif" with an empty prefix.
func ObjectKey(prefix, name string) string {
	return path.Join(prefix, name+".tif")
}

// Fetch downloads s3://<bucket>/<key> to destPath, writing through a
// temporary file so a failed transfer leaves nothing behind.
func (f *Fetcher) Fetch(ctx context.Context, bucket, key, destPath string) (err error) {
	if f == nil {
		return errors.New("bucket: nil fetcher")
	}
	if bucket == "" {
		return errors.New("bucket: bucket name is required")
	}
	if key == "" {
		return errors.New("bucket: object key is required")
	}
	if destPath == "" {
		return errors.New("bucket: destination path is required")
	}

	cfg := aws.Config{Region: f.region}
	if f.creds != nil {
		cfg.Credentials = f.creds
	}
	dl := f.newDownloader(cfg)

	tmp := destPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("bucket: create temp file: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = dl.Download(ctx, out, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("bucket: download object: %w", err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("bucket: close temp file: %w", err)
	}
	if err = os.Rename(tmp, destPath); err != nil {
		return fmt.Errorf("bucket: rename temp file: %w", err)
	}
	return nil
}
