package crawler

// Result is the final output of a crawl run: the deduplicated set of
// discovered page URLs and the merged response header map.
type Result struct {
	URLs    []string          `json:"urls"`
	Headers map[string]string `json:"headers"`
}
