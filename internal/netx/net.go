// Package netx contains URL helpers for talking to the API host.
package netx

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseBaseURL validates an API base URL. Only http and https are accepted;
// a trailing slash is dropped.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// Endpoint appends path to base, keeping any path prefix base already has.
func Endpoint(base *url.URL, path string) string {
	return base.JoinPath(path).String()
}

// ResolveImageURL turns an image reference returned by the API into an
// absolute URL. Absolute references are returned unchanged, relative ones
// are placed under base. An empty reference yields an empty string.
func ResolveImageURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return base.JoinPath(strings.TrimLeft(ref, "/")).String()
}
