package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// defaultMaxBody caps how much of a page is read.
const defaultMaxBody = 8 << 20

type HTTPOptions struct {
	Timeout time.Duration
	Limiter *HostLimiter
	// UserAgent overrides the random per-request agent when set.
	UserAgent string
	// MaxBody is the largest page accepted, in bytes. Bigger pages fail
	// rather than being parsed truncated. Defaults to 8 MiB.
	MaxBody int64
}

// HTTPFetcher is a plain GET fetcher for server-rendered pages.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = defaultMaxBody
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts: opts,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, _ Options) (string, error) {
	if err := f.opts.Limiter.WaitURL(ctx, url); err != nil {
		return "", eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "build request %s: %v", url, err)
	}
	ua := f.opts.UserAgent
	if ua == "" {
		ua = RandomUserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9,ru;q=0.8,en;q=0.7")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", eris.Wrapf(ErrFetchFailed, "get %s: status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBody+1))
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "read %s: %v", url, err)
	}
	if int64(len(raw)) > f.opts.MaxBody {
		zap.L().Warn("page too large", zap.String("url", url), zap.Int64("limit", f.opts.MaxBody))
		return "", eris.Wrapf(ErrFetchFailed, "get %s: body over %d bytes", url, f.opts.MaxBody)
	}
	r, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "decode %s: %v", url, err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "decode %s: %v", url, err)
	}

	zap.L().Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(b)),
	)
	return string(b), nil
}
