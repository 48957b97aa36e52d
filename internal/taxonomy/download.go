// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joelnitta/ftol-ppg-figs/internal/httputil"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// DefaultArchiveURL is the NCBI taxdump zip archive.
const DefaultArchiveURL = "https://ftp.ncbi.nlm.nih.gov/pub/taxonomy/taxdmp.zip"

// Download fetches the taxdump archive to destPath unless it already
// exists. The body streams to a temporary file that is renamed into
// place on success, so a partial download never masquerades as the
// archive. The skipped return value reports whether an existing file
// was reused.
func Download(ctx context.Context, client *http.Client, archiveURL, destPath string, cfg types.TaxonomyConfig) (skipped bool, err error) {
	if _, err := os.Stat(destPath); err == nil {
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return false, fmt.Errorf("creating archive directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HTTP %d from %s", resp.StatusCode, archiveURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".taxdump-*.tmp")
	if err != nil {
		return false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("renaming temp file: %w", err)
	}
	return false, nil
}
