package lexicon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "sajeon-cli"

// IsRemote reports whether input names an http(s) package location.
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// CachePath returns where a remote package is stored under dir. The file
// name of the URL path is kept so the package format can be detected.
func CachePath(dir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("cannot derive a file name from %s", rawURL)
	}
	return filepath.Join(dir, name), nil
}

// Fetcher downloads remote packages.
type Fetcher struct {
	Client *http.Client
	// Logger is used for informational messages. nil means no logging.
	Logger *slog.Logger
}

// NewFetcher creates a Fetcher with a bounded HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: 10 * time.Minute}}
}

// Ensure makes sure a package exists at destPath. If it is missing it is
// downloaded from rawURL. A partial download never replaces destPath.
func (f *Fetcher) Ensure(ctx context.Context, rawURL, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if f.Logger != nil {
		f.Logger.Info("package not cached, downloading", "url", rawURL, "dest", destPath)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".part-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return err
	}
	if f.Logger != nil {
		f.Logger.Info("package downloaded", "dest", destPath, "bytes", n)
	}
	return nil
}
