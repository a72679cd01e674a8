package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type BrowserOptions struct {
	Headless   bool
	NavTimeout time.Duration
	Limiter    *HostLimiter
}

// BrowserFetcher renders pages in headless Chromium. The browser is
// started on first use and shared; every fetch gets its own context.
type BrowserFetcher struct {
	opts BrowserOptions

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewBrowserFetcher(opts BrowserOptions) *BrowserFetcher {
	if opts.NavTimeout == 0 {
		opts.NavTimeout = 60 * time.Second
	}
	return &BrowserFetcher{opts: opts}
}

func (f *BrowserFetcher) ensure() (playwright.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, eris.Wrap(err, "start playwright")
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, eris.Wrap(err, "launch chromium")
	}
	f.pw = pw
	f.browser = b
	zap.L().Info("browser started", zap.Bool("headless", f.opts.Headless))
	return b, nil
}

func (f *BrowserFetcher) timeoutMs(ctx context.Context) float64 {
	d := f.opts.NavTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < d {
			d = left
		}
	}
	if d < time.Second {
		d = time.Second
	}
	return float64(d.Milliseconds())
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string, opts Options) (string, error) {
	if err := f.opts.Limiter.WaitURL(ctx, url); err != nil {
		return "", eris.Wrap(err, "rate limiter wait")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, err := f.ensure()
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "browser unavailable: %v", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(RandomUserAgent()),
	})
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "new browser context: %v", err)
	}
	defer func() {
		if cerr := bctx.Close(); cerr != nil {
			zap.L().Debug("close browser context", zap.Error(cerr))
		}
	}()

	page, err := bctx.NewPage()
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "new page: %v", err)
	}

	timeout := f.timeoutMs(ctx)
	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(timeout),
	})
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "goto %s: %v", url, err)
	}
	if resp != nil && (resp.Status() < 200 || resp.Status() > 299) {
		return "", eris.Wrapf(ErrFetchFailed, "goto %s: status %d", url, resp.Status())
	}

	if opts.WaitSelector != "" {
		err := page.Locator(opts.WaitSelector).First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: playwright.Float(timeout),
		})
		if err != nil {
			// The page may legitimately lack the selector (end of results).
			zap.L().Debug("wait selector not found",
				zap.String("url", url),
				zap.String("selector", opts.WaitSelector),
				zap.Error(err),
			)
		}
	}

	html, err := page.Content()
	if err != nil {
		return "", eris.Wrapf(ErrFetchFailed, "read content %s: %v", url, err)
	}
	return html, nil
}

// Close stops the browser if it was started.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil
	}
	var errs []error
	if err := f.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := f.pw.Stop(); err != nil {
		errs = append(errs, err)
	}
	f.browser = nil
	f.pw = nil
	if len(errs) > 0 {
		return eris.Wrap(errs[0], "close browser")
	}
	return nil
}
