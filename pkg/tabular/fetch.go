// CLAUDE:SUMMARY Resolving remote or zipped inputs to a local CSV: HTTP download with retries, ZIP extraction.
package tabular

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FetchInput resolves an input reference to a local CSV path. Plain
// local paths are returned as-is. http(s) URLs are downloaded into
// workDir with retries; a downloaded or local .zip (registry bulk
// files are usually zipped) is unpacked and the first CSV inside wins.
func FetchInput(ctx context.Context, in, workDir string) (string, error) {
	local := in
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return "", fmt.Errorf("create work dir: %w", err)
		}
		local = filepath.Join(workDir, remoteFileName(in))
		if err := downloadFile(ctx, in, local); err != nil {
			return "", fmt.Errorf("download: %w", err)
		}
	}

	if !strings.HasSuffix(strings.ToLower(local), ".zip") {
		return local, nil
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	files, err := unzipFile(local, workDir)
	if err != nil {
		return "", fmt.Errorf("unzip: %w", err)
	}
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ".csv") {
			return f, nil
		}
	}
	return "", fmt.Errorf("no CSV found in %s", local)
}

// remoteFileName derives a local file name from a URL, ignoring query
// and fragment so "…/data.csv?v=2" lands as "data.csv". URLs with no
// usable path segment (trailing slash, bare host) fall back to
// "input.csv".
func remoteFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "input.csv"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "input.csv"
	}
	return name
}

// downloadFile downloads url to dest with retries and timeout.
func downloadFile(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("create file: %w", err)
		}

		_, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return closeErr
		}
		return nil
	}
	return fmt.Errorf("download %s failed after 3 attempts: %w", url, lastErr)
}

// unzipFile extracts a ZIP archive to destDir and returns the list of
// extracted file paths.
func unzipFile(src, destDir string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var paths []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}

		out, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("create %s: %w", destPath, err)
		}

		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			out.Close()
			return nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		rc.Close()
		out.Close()
		paths = append(paths, destPath)
	}
	return paths, nil
}
