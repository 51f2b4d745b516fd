// Package crawler implements the crawl orchestration core: the URL
// frontier with join-based termination, the visited/discovered state,
// the header store, and the fixed worker pool driven by the Engine.
// Loading and rendering a page is delegated to a Driver implementation.
package crawler
