package bucket

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockDownloader struct {
	payload []byte
	input   *s3.GetObjectInput
	cfg     aws.Config
	err     error
}

func (m *mockDownloader) Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, _ ...func(*manager.Downloader)) (int64, error) {
	m.input = input
	if m.err != nil {
		return 0, m.err
	}
	n, err := w.WriteAt(m.payload, 0)
	return int64(n), err
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("exports/2024", "scene"); got != "exports/2024/scene.tif" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := ObjectKey("", "scene"); got != "scene.tif" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestFetchWritesObject(t *testing.T) {
	mock := &mockDownloader{payload: []byte("raster-bytes")}
	fetcher := NewFetcher(WithRegion("eu-west-1"), WithStaticCredentials("key", "secret"))
	fetcher.newDownloader = func(cfg aws.Config) Downloader {
		mock.cfg = cfg
		return mock
	}

	dest := filepath.Join(t.TempDir(), "scene.tif")
	if err := fetcher.Fetch(context.Background(), "sentinel-bucket", "exports/scene.tif", dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := aws.ToString(mock.input.Bucket); got != "sentinel-bucket" {
		t.Fatalf("unexpected bucket: %s", got)
	}
	if got := aws.ToString(mock.input.Key); got != "exports/scene.tif" {
		t.Fatalf("unexpected key: %s", got)
	}
	if mock.cfg.Region != "eu-west-1" {
		t.Fatalf("unexpected region: %s", mock.cfg.Region)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "raster-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestFetchValidation(t *testing.T) {
	fetcher := NewFetcher()
	ctx := context.Background()

	if err := fetcher.Fetch(ctx, "", "key", "dest"); err == nil {
		t.Fatalf("expected error for empty bucket")
	}
	if err := fetcher.Fetch(ctx, "bucket", "", "dest"); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if err := fetcher.Fetch(ctx, "bucket", "key", ""); err == nil {
		t.Fatalf("expected error for empty destination")
	}
}

func TestFetchCleansUpOnFailure(t *testing.T) {
	mock := &mockDownloader{err: context.DeadlineExceeded}
	fetcher := NewFetcher()
	fetcher.newDownloader = func(aws.Config) Downloader { return mock }

	dest := filepath.Join(t.TempDir(), "scene.tif")
	if err := fetcher.Fetch(context.Background(), "bucket", "key", dest); err == nil {
		t.Fatalf("expected download error")
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Fatalf("temp file should have been removed")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("destination should not exist")
	}
}
