package crawler

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// visitSet tracks URLs already dispatched for crawling. Membership means
// "dispatched", not "completed": a URL is marked before its page load
// begins so no two workers ever crawl the same URL.
type visitSet struct {
	seen  sync.Map
	count atomic.Int64
}

func newVisitSet() *visitSet {
	return &visitSet{}
}

// MarkIfNew stores the URL if it has not been seen before and returns
// true exactly once per URL.
func (s *visitSet) MarkIfNew(url string) bool {
	if url == "" {
		return false
	}
	if _, loaded := s.seen.LoadOrStore(url, struct{}{}); loaded {
		return false
	}
	s.count.Add(1)
	return true
}

// Has reports whether the URL was already dispatched.
func (s *visitSet) Has(url string) bool {
	_, ok := s.seen.Load(url)
	return ok
}

// Len returns the number of dispatched URLs.
func (s *visitSet) Len() int {
	return int(s.count.Load())
}

// discoverSet accumulates page-like URLs for the final result. Add-only.
type discoverSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

func newDiscoverSet() *discoverSet {
	return &discoverSet{urls: make(map[string]struct{})}
}

func (s *discoverSet) Add(url string) {
	s.mu.Lock()
	s.urls[url] = struct{}{}
	s.mu.Unlock()
}

// Snapshot returns the discovered URLs in unspecified order.
func (s *discoverSet) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.urls))
	for u := range s.urls {
		out = append(out, u)
	}
	return out
}

func (s *discoverSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// HeaderStore merges response headers observed across all workers.
// Names are canonicalized, ignore-listed names are dropped, and the
// most recently recorded value wins. Safe for concurrent use.
type HeaderStore struct {
	mu      sync.Mutex
	values  map[string]string
	ignored map[string]struct{}
}

// NewHeaderStore builds a store that silently drops the given header
// names. Matching is case-insensitive.
func NewHeaderStore(ignore []string) *HeaderStore {
	ignored := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		ignored[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return &HeaderStore{
		values:  make(map[string]string),
		ignored: ignored,
	}
}

// Record merges one observed header. Last write wins; no ordering
// beyond the actual interleaving of calls is imposed.
func (s *HeaderStore) Record(name, value string) {
	if name == "" {
		return
	}
	if _, skip := s.ignored[strings.ToLower(name)]; skip {
		return
	}
	canonical := http.CanonicalHeaderKey(name)
	s.mu.Lock()
	s.values[canonical] = value
	s.mu.Unlock()
	headersRecorded.Inc()
}

// Snapshot returns a copy of the merged header map.
func (s *HeaderStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
