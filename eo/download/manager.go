// Package download retrieves export archives from the imagery service and
// unpacks the per-band raster files they contain.
package download

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	internalhttp "github.com/example/go-eoget/eo/internal/http"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is invoked as bytes are written for the archive download.
type ProgressFunc func(Progress)

// Progress reports download progress for the export archive.
type Progress struct {
	URL        string
	Downloaded int64
	Total      int64
}

// Config controls how archives are fetched and extracted.
type Config struct {
	// Concurrency bounds the number of band files extracted in parallel.
	Concurrency int
	Progress    ProgressFunc
}

// Manager downloads an export archive and extracts its band files.
type Manager interface {
	Fetch(ctx context.Context, client *http.Client, userAgent, archiveURL, destDir string) ([]string, error)
}

type manager struct {
	cfg Config
}

// NewManager constructs a download manager with the provided configuration.
func NewManager(cfg Config) Manager {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &manager{cfg: cfg}
}

func (m *manager) Fetch(ctx context.Context, client *http.Client, userAgent, archiveURL, destDir string) ([]string, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	if archiveURL == "" {
		return nil, errors.New("archive URL is required")
	}
	if destDir == "" {
		return nil, errors.New("destination directory is required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	archivePath, err := m.fetchArchive(ctx, client, userAgent, archiveURL, destDir)
	if err != nil {
		return nil, err
	}
	defer os.Remove(archivePath)

	return m.extract(ctx, archivePath, destDir)
}

func (m *manager) fetchArchive(ctx context.Context, client *http.Client, userAgent, archiveURL, destDir string) (path string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := internalhttp.Do(ctx, client, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", internalhttp.HTTPError(resp)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		lower := strings.ToLower(ct)
		if strings.Contains(lower, "text/html") || strings.Contains(lower, "application/xhtml") {
			preview, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return "", fmt.Errorf("unexpected HTML response while downloading %s: %s", archiveURL, strings.TrimSpace(string(preview)))
		}
	}

	tmp, err := os.CreateTemp(destDir, "export-*.zip.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	writer := newProgressWriter(tmp, m.cfg.Progress, Progress{
		URL:   archiveURL,
		Total: resp.ContentLength,
	})
	if _, err = io.Copy(writer, resp.Body); err != nil {
		return "", fmt.Errorf("copy archive: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

// extract unpacks every regular file in the archive into destDir, one output
// file per spectral band, keeping the service's entry names.
func (m *manager) extract(ctx context.Context, archivePath, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, m.cfg.Concurrency)

	var written []string
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(entry.Name)
		if name == "" || name == "." || name == "/" {
			return nil, fmt.Errorf("archive entry %q has no usable name", entry.Name)
		}
		dest := filepath.Join(destDir, name)
		written = append(written, dest)

		e := entry
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			return extractEntry(e, dest)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(written)
	return written, nil
}

func extractEntry(entry *zip.File, dest string) (err error) {
	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer in.Close()

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

type progressWriter struct {
	w        io.Writer
	fn       ProgressFunc
	progress Progress
}

func newProgressWriter(w io.Writer, fn ProgressFunc, initial Progress) *progressWriter {
	return &progressWriter{w: w, fn: fn, progress: initial}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 && p.fn != nil {
		p.progress.Downloaded += int64(n)
		p.fn(p.progress)
	}
	return n, err
}
