package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pagesCrawled tracks the number of page loads dispatched to the driver.
	pagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightcrawler_pages_crawled_total",
		Help: "The total number of page loads dispatched to the page driver.",
	})
	// pageFailures tracks page loads that ended in a navigation or extraction error.
	pageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightcrawler_page_failures_total",
		Help: "The total number of page loads that failed.",
	})
	// linksDiscovered tracks page-like URLs added to the discovered set.
	linksDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightcrawler_links_discovered_total",
		Help: "The total number of page URLs added to the discovered set.",
	})
	// linksEnqueued tracks URLs admitted onto the frontier, assets included.
	linksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightcrawler_links_enqueued_total",
		Help: "The total number of URLs enqueued onto the frontier.",
	})
	// headersRecorded tracks header merges accepted by the header store.
	headersRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightcrawler_headers_recorded_total",
		Help: "The total number of response headers merged into the header map.",
	})
)
