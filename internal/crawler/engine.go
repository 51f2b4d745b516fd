package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultWorkers is the pool size when configuration does not set one.
const defaultWorkers = 10

// defaultIgnoredHeaders are volatile, non-semantic header names that
// never land in the merged header map.
var defaultIgnoredHeaders = []string{
	"content-length", "age", "date", "etag",
	"last-modified", "expires", "keep-alive",
}

// Engine orchestrates a crawl: it seeds the frontier, fans work out to
// a fixed pool of workers, waits for the termination protocol to fire,
// and assembles the final result. All crawl state lives on the Engine
// value; there are no package-level singletons.
type Engine struct {
	cfg        Config
	driver     Driver
	frontier   *Frontier
	visited    *visitSet
	discovered *discoverSet
	headers    *HeaderStore
	agents     *AgentPool
	logger     *zap.Logger
}

// NewEngine constructs an Engine over the given driver. The driver is
// owned by the engine from here on and is closed when Run finishes.
func NewEngine(cfg Config, driver Driver, logger *zap.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.IgnoredHeaders == nil {
		cfg.IgnoredHeaders = defaultIgnoredHeaders
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("crawl_id", uuid.NewString()))
	return &Engine{
		cfg:        cfg,
		driver:     driver,
		frontier:   NewFrontier(),
		visited:    newVisitSet(),
		discovered: newDiscoverSet(),
		headers:    NewHeaderStore(cfg.IgnoredHeaders),
		agents:     NewAgentPool(cfg.UserAgents, rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
	}
}

// Run crawls outward from seed until the link graph is exhausted or the
// request budget is reached, then returns the discovered URL set and
// the merged header map. A seed that fails to load is not an error; the
// result is simply empty.
func (e *Engine) Run(ctx context.Context, seed string) (Result, error) {
	seedURL, err := NormalizeURL(seed)
	if err != nil {
		return Result{}, fmt.Errorf("seed url: %w", err)
	}

	e.logger.Info("Starting crawl",
		zap.String("seed", seedURL),
		zap.Int("workers", e.cfg.Workers),
		zap.Int("max_requests", e.cfg.MaxRequests),
	)

	e.frontier.Enqueue(seedURL)

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			e.runWorker(ctx, id)
		}(i)
	}

	joined := make(chan struct{})
	go func() {
		e.frontier.Join()
		close(joined)
	}()

	select {
	case <-joined:
	case <-ctx.Done():
		e.logger.Warn("Crawl canceled; draining frontier", zap.Error(ctx.Err()))
	}

	for i := 0; i < e.cfg.Workers; i++ {
		e.frontier.EnqueueStop()
	}
	wg.Wait()

	if cerr := e.driver.Close(); cerr != nil {
		e.logger.Warn("Failed to close page driver", zap.Error(cerr))
	}

	e.logger.Info("Crawl finished",
		zap.Int("visited", e.visited.Len()),
		zap.Int("discovered", e.discovered.Len()),
	)

	return Result{
		URLs:    e.discovered.Snapshot(),
		Headers: e.headers.Snapshot(),
	}, nil
}

// runWorker drains the frontier until a sentinel arrives, balancing
// every dequeue with exactly one MarkDone.
func (e *Engine) runWorker(ctx context.Context, id int) {
	logger := e.logger.With(zap.Int("worker", id))
	for {
		rawURL, ok := e.frontier.Dequeue()
		if !ok {
			e.frontier.MarkDone()
			return
		}
		e.crawlPage(ctx, logger, rawURL)
		e.frontier.MarkDone()
	}
}

// crawlPage processes a single URL. Failures are logged and swallowed:
// a failing page contributes no links, but the crawl carries on.
func (e *Engine) crawlPage(ctx context.Context, logger *zap.Logger, rawURL string) {
	// The dispatch path filters before enqueueing; re-check here so the
	// budget race across workers stays a soft overshoot.
	if e.budgetExhausted() {
		return
	}
	if !e.visited.MarkIfNew(rawURL) {
		return
	}
	pagesCrawled.Inc()
	logger.Debug("Crawling", zap.String("url", rawURL))

	base, err := url.Parse(rawURL)
	if err != nil {
		pageFailures.Inc()
		logger.Warn("Unparseable queued URL", zap.String("url", rawURL), zap.Error(err))
		return
	}

	page, err := e.driver.NewContext(ctx, e.agents.Pick())
	if err != nil {
		pageFailures.Inc()
		logger.Warn("Failed to open browsing context", zap.String("url", rawURL), zap.Error(err))
		return
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logger.Debug("Failed to close page context", zap.String("url", rawURL), zap.Error(cerr))
		}
	}()

	links, err := page.Visit(ctx, rawURL, e.headers.Record)
	if err != nil {
		pageFailures.Inc()
		logger.Warn("Page load failed", zap.String("url", rawURL), zap.Error(err))
		return
	}

	for _, raw := range links {
		e.admitLink(logger, base, raw)
	}
}

// admitLink applies the frontier admission rules to one extracted
// reference: same origin as the page that produced it, not yet
// dispatched, and within the request budget. Admitted URLs are always
// enqueued; only page-like ones count as discovered.
func (e *Engine) admitLink(logger *zap.Logger, base *url.URL, raw string) {
	abs, ref, err := ResolveRef(base, raw)
	if err != nil {
		logger.Debug("Dropping unresolvable reference", zap.String("ref", raw), zap.Error(err))
		return
	}
	if !SameOrigin(base, ref) {
		return
	}
	if e.visited.Has(abs) {
		return
	}
	if e.budgetExhausted() {
		return
	}
	e.frontier.Enqueue(abs)
	linksEnqueued.Inc()
	if !IsAssetPath(ref) {
		e.discovered.Add(abs)
		linksDiscovered.Inc()
	}
}

func (e *Engine) budgetExhausted() bool {
	return e.cfg.MaxRequests > 0 && e.visited.Len() >= e.cfg.MaxRequests
}
