package obo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultURL is the current GO ontology release in OBO format.
const DefaultURL = "http://purl.obolibrary.org/obo/go.obo"

// maxRedirects bounds redirect-following during download; the OBO PURL
// resolver redirects at least once to the release mirror.
const maxRedirects = 10

// ErrNoSource is returned when the ontology file is absent and auto-fetch
// is disabled.
var ErrNoSource = errors.New("ontology file not found and auto-fetch is disabled")

// Fetcher ensures a local copy of the ontology source file exists,
// downloading it when absent.
type Fetcher struct {
	URL       string
	AutoFetch bool
	Client    *http.Client
}

// NewFetcher creates a fetcher for the given source URL.
// An empty url selects DefaultURL.
func NewFetcher(url string, autoFetch bool) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	return &Fetcher{
		URL:       url,
		AutoFetch: autoFetch,
		Client: &http.Client{
			Timeout: 30 * time.Minute, // the GO release is ~150MB of text
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Ensure makes sure a readable ontology file exists at path.
// If the file is missing and auto-fetch is enabled, it is downloaded.
func (f *Fetcher) Ensure(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if !f.AutoFetch {
		return fmt.Errorf("%w: %s", ErrNoSource, path)
	}
	return f.Download(ctx, path)
}

// Download fetches the ontology to a temporary file and atomically renames
// it into place, so a failed or partial download never leaves a
// usable-looking file behind.
func (f *Fetcher) Download(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ontology directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("build ontology request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch ontology: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch ontology: HTTP %s", resp.Status)
	}

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, err = io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write ontology: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename ontology: %w", err)
	}

	return nil
}

// Load ensures the file at path exists (downloading if allowed) and parses it.
func (f *Fetcher) Load(ctx context.Context, path string) ([]Term, error) {
	if err := f.Ensure(ctx, path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology file: %w", err)
	}
	defer file.Close()

	terms, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse ontology: %w", err)
	}
	return terms, nil
}
