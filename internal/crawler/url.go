package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// assetExtensions are path suffixes treated as non-page assets. Asset
// URLs are still crawled for completeness but never reported as
// discovered pages.
var assetExtensions = []string{".js", ".css", ".json"}

// NormalizeURL standardizes a URL so equal pages dedup to one key.
// It lowercases the scheme and host, removes default ports and
// fragments, and sorts query parameters.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	normalize(u)
	return u.String(), nil
}

// ResolveRef resolves a raw href/src value against the page it was
// extracted from and returns the normalized absolute form.
func ResolveRef(base *url.URL, raw string) (string, *url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil, fmt.Errorf("empty reference")
	}
	ref, err := base.Parse(raw)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %q: %w", raw, err)
	}
	normalize(ref)
	return ref.String(), ref, nil
}

// SameOrigin reports whether two URLs share scheme, host, and port.
// Both sides are expected to be normalized, so default ports compare
// equal to their absent form.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// IsAssetPath reports whether the URL path ends in a known asset
// extension. Query strings and fragments do not count.
func IsAssetPath(u *url.URL) bool {
	if u == nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func normalize(u *url.URL) {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Fragment = ""
	if q := u.Query(); len(q) > 0 {
		u.RawQuery = q.Encode()
	}
}
