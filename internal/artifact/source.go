package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"reelmatch/internal/config"
	"reelmatch/internal/fileutil"
	"reelmatch/internal/logging"
	"reelmatch/internal/textutil"
)

const lockRetryDelay = 100 * time.Millisecond

// Fetcher resolves artifact sources to local files, downloading remote URLs
// into a cache directory.
type Fetcher struct {
	cacheDir string
	client   *http.Client
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher storing downloads under cacheDir.
func NewFetcher(cacheDir string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Fetcher{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewComponentLogger(logger, "artifact"),
	}
}

// CachePath returns the cache file used for a remote source.
func (f *Fetcher) CachePath(source string) string {
	sum := sha256.Sum256([]byte(source))
	name := "artifact"
	if u, err := url.Parse(source); err == nil {
		name = textutil.SanitizeFileName(path.Base(u.Path))
	}
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:8])+"-"+name)
}

// Resolve returns a local path for source. Local paths are returned as-is;
// remote URLs are downloaded unless already cached and refresh is false.
func (f *Fetcher) Resolve(ctx context.Context, source string, refresh bool) (string, error) {
	if !config.IsRemote(source) {
		if _, err := os.Stat(source); err != nil {
			return "", fmt.Errorf("stat %s: %w", source, err)
		}
		return source, nil
	}

	target := f.CachePath(source)
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(target + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", filepath.Base(target), err)
	}
	if !locked {
		return "", fmt.Errorf("lock %s: not acquired", filepath.Base(target))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			f.logger.Warn("failed to release artifact cache lock",
				logging.String("path", target+".lock"),
				logging.Error(err),
			)
		}
	}()

	if !refresh {
		if info, err := os.Stat(target); err == nil && info.Size() > 0 {
			f.logger.Debug("using cached artifact", logging.String("url", source), logging.String("path", target))
			return target, nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat cached artifact: %w", err)
		}
	}

	if err := f.download(ctx, source, target); err != nil {
		return "", err
	}
	return target, nil
}

func (f *Fetcher) download(ctx context.Context, source, target string) error {
	f.logger.Info("downloading artifact", logging.String("url", source))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", source, resp.StatusCode)
	}

	var written int64
	err = fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
		n, copyErr := io.Copy(w, resp.Body)
		written = n
		if copyErr != nil {
			return fmt.Errorf("download %s: %w", source, copyErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	f.logger.Info("artifact downloaded",
		logging.String("url", source),
		logging.String("path", target),
		logging.Int("bytes", int(written)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}
