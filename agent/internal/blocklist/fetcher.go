package blocklist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"gambleguard/agent/internal/config"
	"gambleguard/agent/internal/logger"
)

// Origin tells where a list came from.
type Origin string

const (
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

// List is one fetched blocklist, already trimmed and stripped of comments.
type List struct {
	Lines  []string
	Origin Origin
}

// FetchError is returned when both the remote and the fallback file failed.
// It unwraps to the fallback failure.
type FetchError struct {
	Remote   error
	Fallback error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch blocklist: remote: %v; fallback: %v", e.Remote, e.Fallback)
}

func (e *FetchError) Unwrap() error { return e.Fallback }

// MaxBodySize caps the remote response. A larger body counts as a remote failure.
const MaxBodySize = 8 << 20

type Fetcher struct {
	src     config.BlocklistSource
	http    *http.Client
	maxBody int64
}

func NewFetcher(src config.BlocklistSource, timeout time.Duration) *Fetcher {
	return &Fetcher{
		src:     src,
		http:    &http.Client{Timeout: timeout},
		maxBody: MaxBodySize,
	}
}

// Fetch tries the remote URL once and falls back to the local copy on any
// transport error or non-2xx status.
func (f *Fetcher) Fetch(ctx context.Context) (*List, error) {
	body, rerr := f.fetchRemote(ctx)
	if rerr == nil {
		logger.Info("Fetched blocklist from remote")
		return &List{Lines: splitLines(body), Origin: OriginRemote}, nil
	}

	logger.Warnf("Remote fetch failed, using fallback %s: %v", f.src.FallbackPath, rerr)
	data, ferr := os.ReadFile(f.src.FallbackPath)
	if ferr != nil {
		return nil, &FetchError{Remote: rerr, Fallback: ferr}
	}
	return &List{Lines: splitLines(string(data)), Origin: OriginFallback}, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.src.RemoteURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > f.maxBody {
		return "", fmt.Errorf("body exceeds %d bytes", f.maxBody)
	}
	return string(data), nil
}
