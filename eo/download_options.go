package eo

import (
	"github.com/example/go-eoget/eo/download"
)

type downloadConfig struct {
	concurrency int
	progress    download.ProgressFunc
	downloader  download.Manager
}

// DownloadOption customises how export archives are fetched and extracted.
type DownloadOption func(*downloadConfig)

// WithExtractConcurrency specifies the number of band files to unpack in parallel.
func WithExtractConcurrency(n int) DownloadOption {
	return func(cfg *downloadConfig) {
		if n > 0 {
			cfg.concurrency = n
		}
	}
}

// WithProgress registers a callback to receive download progress notifications.
func WithProgress(fn download.ProgressFunc) DownloadOption {
	return func(cfg *downloadConfig) {
		cfg.progress = fn
	}
}

// WithDownloader allows providing a custom download.Manager implementation.
func WithDownloader(m download.Manager) DownloadOption {
	return func(cfg *downloadConfig) {
		if m != nil {
			cfg.downloader = m
		}
	}
}

func (c *downloadConfig) ensureDefaults() {
	if c.concurrency <= 0 {
		c.concurrency = 2
	}
	if c.downloader == nil {
		c.downloader = download.NewManager(download.Config{
			Concurrency: c.concurrency,
			Progress:    c.progress,
		})
	}
}
