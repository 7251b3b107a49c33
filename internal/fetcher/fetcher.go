// Package fetcher renders a URL in the browser and snapshots the result.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"chat2md/internal/browser"
	"chat2md/internal/ready"
	"chat2md/internal/scraper"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// WaitStrategy selects how Fetch decides a page has rendered.
type WaitStrategy string

const (
	WaitStrategyLoad    WaitStrategy = "load"    // load event, then network idle
	WaitStrategyElement WaitStrategy = "element" // a selector matches
	WaitStrategyTime    WaitStrategy = "time"    // fixed delay in milliseconds
)

// ErrInvalidWait is returned for unknown strategies and malformed targets.
var ErrInvalidWait = errors.New("invalid wait option")

const requestIdle = 500 * time.Millisecond

// ParseWaitStrategy validates a strategy name. Empty selects load.
func ParseWaitStrategy(s string) (WaitStrategy, error) {
	switch WaitStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", WaitStrategyLoad:
		return WaitStrategyLoad, nil
	case WaitStrategyElement:
		return WaitStrategyElement, nil
	case WaitStrategyTime:
		return WaitStrategyTime, nil
	}
	return "", fmt.Errorf("%w: unknown wait strategy %q", ErrInvalidWait, s)
}

// Options control one fetch.
type Options struct {
	WaitFor    WaitStrategy
	WaitTarget string // selector for element, milliseconds for time
	// ReadySelector is the element waited for when WaitTarget is empty.
	ReadySelector string
	Timeout       time.Duration
	Headers       map[string]string
	// PollInterval is how often the element strategy checks the page.
	PollInterval time.Duration
}

// waitSelector returns the selector the element strategy waits for.
func (o Options) waitSelector() (string, error) {
	if o.WaitTarget != "" {
		return o.WaitTarget, nil
	}
	if o.ReadySelector != "" {
		return o.ReadySelector, nil
	}
	return "", fmt.Errorf("%w: element strategy needs a wait target", ErrInvalidWait)
}

// waitDuration parses the time strategy target.
func (o Options) waitDuration() (time.Duration, error) {
	ms, err := strconv.Atoi(strings.TrimSpace(o.WaitTarget))
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%w: wait time %q is not a number of milliseconds", ErrInvalidWait, o.WaitTarget)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Result is a rendered page snapshot.
type Result struct {
	Page     *scraper.Page
	LoadTime time.Duration
}

// Fetcher renders pages in one browser.
type Fetcher struct {
	browser *browser.Browser
	logger  *slog.Logger
}

// New returns a Fetcher using b. A nil logger discards log output.
func New(b *browser.Browser, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{browser: b, logger: logger}
}

// Fetch opens target in a new tab, waits according to opts and returns a
// snapshot of the rendered DOM. The tab is closed before Fetch returns.
func (f *Fetcher) Fetch(ctx context.Context, target string, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()
	page = page.Context(ctx)

	if len(opts.Headers) > 0 {
		headers := make([]string, 0, len(opts.Headers)*2)
		for k, v := range opts.Headers {
			headers = append(headers, k, v)
		}
		cleanup, err := page.SetExtraHeaders(headers)
		if err != nil {
			return nil, fmt.Errorf("failed to set headers: %w", err)
		}
		defer cleanup()
	}

	f.logger.Debug("navigating", "url", target)
	if err := page.Navigate(target); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	if err := f.wait(ctx, page, opts); err != nil {
		return nil, fmt.Errorf("wait strategy failed: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}
	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	snapshot, err := scraper.NewPage(strings.NewReader(html), info.URL, info.Title)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(start)
	f.logger.Debug("page rendered", "url", info.URL, "title", info.Title, "load_time", loadTime)
	return &Result{Page: snapshot, LoadTime: loadTime}, nil
}

func (f *Fetcher) wait(ctx context.Context, page *rod.Page, opts Options) error {
	switch opts.WaitFor {
	case WaitStrategyElement:
		selector, err := opts.waitSelector()
		if err != nil {
			return err
		}
		f.logger.Debug("waiting for element", "selector", selector)
		w := ready.New(func(ctx context.Context) (bool, error) {
			has, _, err := page.Context(ctx).Has(selector)
			return has, err
		}, opts.PollInterval)
		return w.Watch(ctx, func() {
			f.logger.Debug("element ready", "selector", selector)
		})

	case WaitStrategyTime:
		d, err := opts.waitDuration()
		if err != nil {
			return err
		}
		f.logger.Debug("waiting", "duration", d)
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	default:
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
		// Single-page apps keep rendering after load; wait for the network
		// to settle, ignoring images and media.
		page.WaitRequestIdle(requestIdle, nil, nil,
			[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
		)()
		return nil
	}
}
