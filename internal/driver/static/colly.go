// Package static implements the page driver over plain HTTP using
// Colly. It executes no JavaScript, so lazy-loaded content is invisible
// to it; it exists for environments without a usable Chrome install and
// for fast crawls of server-rendered sites.
package static

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/nthompson/nightcrawler/internal/crawler"
)

// Config controls the static driver.
type Config struct {
	RequestTimeout time.Duration
}

// Driver builds one configured Colly collector per browsing context.
type Driver struct {
	cfg    Config
	logger *zap.Logger
}

// New constructs a static driver.
func New(cfg Config, logger *zap.Logger) *Driver {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{cfg: cfg, logger: logger}
}

// NewContext returns a context whose collector carries the User-Agent.
// Collectors share no cookie jars across contexts.
func (d *Driver) NewContext(_ context.Context, userAgent string) (crawler.PageContext, error) {
	collector := colly.NewCollector(colly.UserAgent(userAgent))
	collector.AllowURLRevisit = true
	// Browsers render 404 pages like any other; parse error responses
	// so their references and headers are still observed.
	collector.ParseHTTPErrorResponse = true
	collector.SetRequestTimeout(d.cfg.RequestTimeout)
	return &pageContext{collector: collector}, nil
}

// Close is a no-op; the driver holds no session-wide resources.
func (d *Driver) Close() error {
	return nil
}

type pageContext struct {
	collector *colly.Collector
}

// Visit fetches rawURL and returns the raw href/src values of anchors,
// scripts, and stylesheet links found in the response body. Response
// headers are forwarded before the outcome of the fetch is known, which
// matches how a browser driver streams them.
func (p *pageContext) Visit(ctx context.Context, rawURL string, onResponse crawler.ResponseFunc) ([]string, error) {
	var (
		mu       sync.Mutex
		links    []string
		fetchErr error
	)

	collect := func(value string) {
		if value == "" {
			return
		}
		mu.Lock()
		links = append(links, value)
		mu.Unlock()
	}

	p.collector.OnResponse(func(r *colly.Response) {
		if r.Headers == nil || onResponse == nil {
			return
		}
		for name, values := range *r.Headers {
			for _, value := range values {
				onResponse(name, value)
			}
		}
	})
	p.collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		collect(e.Attr("href"))
	})
	p.collector.OnHTML("script[src]", func(e *colly.HTMLElement) {
		collect(e.Attr("src"))
	})
	p.collector.OnHTML("link[rel=stylesheet]", func(e *colly.HTMLElement) {
		collect(e.Attr("href"))
	})
	p.collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		mu.Lock()
		fetchErr = err
		mu.Unlock()
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	p.collector.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
	}
	return links, nil
}

// Close drops the collector; nothing to release beyond idle
// connections owned by the shared transport.
func (p *pageContext) Close() error {
	return nil
}
