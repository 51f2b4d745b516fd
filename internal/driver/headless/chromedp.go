// Package headless implements the page driver on top of chromedp and
// headless Chrome. One exec allocator backs the whole crawl; every
// crawled URL gets its own tab context with its own User-Agent.
package headless

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nthompson/nightcrawler/internal/crawler"
)

// extractLinksJS pulls the raw href/src values of every hyperlink,
// script, and stylesheet reference from the rendered DOM.
const extractLinksJS = `Array.from(
	document.querySelectorAll("a[href], script[src], link[rel=stylesheet]")
).map(el => el.getAttribute("href") || el.getAttribute("src")).filter(Boolean)`

const scrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight)`

// Config controls the behavior of the headless driver.
type Config struct {
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	DomainQPS         float64
}

// Driver owns the browser session shared by all workers.
type Driver struct {
	cfg             Config
	logger          *zap.Logger
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	domainLimiters  sync.Map
}

// New launches the headless browser session.
func New(cfg Config, logger *zap.Logger) (*Driver, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 45 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &Driver{
		cfg:             cfg,
		logger:          logger,
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
	}, nil
}

// NewContext opens a fresh tab context configured with the User-Agent.
func (d *Driver) NewContext(_ context.Context, userAgent string) (crawler.PageContext, error) {
	tabCtx, cancelTab := chromedp.NewContext(d.browserCtx)
	return &pageContext{
		driver:    d,
		userAgent: userAgent,
		tabCtx:    tabCtx,
		cancelTab: cancelTab,
	}, nil
}

// Close tears down the browser and allocator contexts.
func (d *Driver) Close() error {
	d.browserCancel()
	d.allocatorCancel()
	return nil
}

type pageContext struct {
	driver    *Driver
	userAgent string
	tabCtx    context.Context
	cancelTab context.CancelFunc
}

// Visit navigates to rawURL, waits for network idle (best effort),
// scrolls to the bottom to trigger lazy-loaded content, pauses for the
// settle delay, and extracts raw link references. Every HTTP response
// observed during the load is forwarded to onResponse, even when the
// navigation ultimately fails.
func (p *pageContext) Visit(ctx context.Context, rawURL string, onResponse crawler.ResponseFunc) ([]string, error) {
	if err := p.driver.waitDomainBudget(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("domain rate limit: %w", err)
	}

	taskCtx, cancelTask := context.WithTimeout(p.tabCtx, p.driver.cfg.NavigationTimeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	networkIdle := make(chan struct{})
	var idleOnce sync.Once
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		switch event := ev.(type) {
		case *network.EventResponseReceived:
			forwardHeaders(event, onResponse)
		case *page.EventLifecycleEvent:
			if event.Name == "networkIdle" {
				idleOnce.Do(func() { close(networkIdle) })
			}
		}
	})

	var links []string
	tasks := chromedp.Tasks{
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
		emulation.SetUserAgentOverride(p.userAgent),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		waitSignal(networkIdle, 5*time.Second),
		chromedp.Evaluate(scrollToBottomJS, nil),
		chromedp.Sleep(p.driver.cfg.SettleDelay),
		chromedp.Evaluate(extractLinksJS, &links),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp run: %w", err)
	}
	return links, nil
}

// Close releases the tab and its page resources.
func (p *pageContext) Close() error {
	p.cancelTab()
	return nil
}

// forwardHeaders streams every header of one observed response.
func forwardHeaders(event *network.EventResponseReceived, onResponse crawler.ResponseFunc) {
	if event.Response == nil || onResponse == nil {
		return
	}
	for name, value := range event.Response.Headers {
		switch v := value.(type) {
		case string:
			onResponse(name, v)
		case []interface{}:
			for _, entry := range v {
				onResponse(name, fmt.Sprint(entry))
			}
		default:
			onResponse(name, fmt.Sprint(v))
		}
	}
}

// waitSignal blocks until ch closes or the grace period elapses.
// Network idle is a heuristic; timing out is not an error.
func waitSignal(ch <-chan struct{}, grace time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-ch:
			return nil
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

func (d *Driver) waitDomainBudget(ctx context.Context, rawURL string) error {
	if d.cfg.DomainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := d.domainLimiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(d.cfg.DomainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}
