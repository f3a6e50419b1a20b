// ABOUTME: URL resolver turns raw attribute values into absolute, fetchable URLs
// ABOUTME: Pure functions; the base URL is always passed explicitly

package resolver

import (
	"errors"
	"net/url"
	"strings"

	coreerrors "github.com/ninimihaila/singlepage/core/errors"
)

var errRelativeBase = errors.New("base URL is not absolute")

// Resolve returns raw as an absolute URL.
// An already absolute raw (scheme and host present) is returned unchanged,
// anything else is joined against base following RFC 3986.
func Resolve(raw, base string) (string, error) {
	raw = strings.TrimSpace(raw)
	if IsInline(raw) {
		return raw, nil
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", &coreerrors.ResolutionError{Raw: raw, Base: base, Err: err}
	}
	if ref.Scheme != "" && (ref.Host != "" || ref.Opaque != "") {
		return raw, nil
	}

	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", &coreerrors.ResolutionError{Raw: raw, Base: base, Err: err}
	}
	if !baseURL.IsAbs() || baseURL.Host == "" {
		return "", &coreerrors.ResolutionError{Raw: raw, Base: base, Err: errRelativeBase}
	}

	return baseURL.ResolveReference(ref).String(), nil
}

// IsFetchable reports whether u can be retrieved with an HTTP GET
func IsFetchable(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.Host != ""
	}
	return false
}

// IsInline reports whether u is a data: URI, i.e. content that is already embedded
func IsInline(u string) bool {
	return len(u) >= 5 && strings.EqualFold(u[:5], "data:")
}
