package crawler

import "context"

// ResponseFunc receives one observed HTTP response header. Drivers call
// it for every response seen while a page loads, including responses
// belonging to navigations that ultimately fail.
type ResponseFunc func(name, value string)

// Driver abstracts the browser-automation session used to load pages.
// Implementations own one process-wide session; each crawled URL gets
// its own isolated browsing context.
type Driver interface {
	// NewContext opens a fresh browsing context configured with the
	// given User-Agent. Contexts share no cookies or storage.
	NewContext(ctx context.Context, userAgent string) (PageContext, error)

	// Close releases the underlying session.
	Close() error
}

// PageContext is a scoped browsing context able to load exactly the
// pages it is asked for and report what it saw.
type PageContext interface {
	// Visit navigates to rawURL, waits for quiescence, surfaces lazy
	// content, and returns the raw href/src values of every anchor,
	// script, and stylesheet reference on the rendered page. Values are
	// returned as found in the DOM; resolution against the page URL is
	// the caller's concern. onResponse is invoked once per header per
	// observed HTTP response.
	Visit(ctx context.Context, rawURL string, onResponse ResponseFunc) ([]string, error)

	// Close releases the context and any page resources. Best effort.
	Close() error
}
