package helpers

import (
	"errors"
	"net/url"
	"strings"
)

// CanonicalURL normalises an absolute URL for deduplication. It lowercases
// scheme and host, removes default ports, defaults an empty path to "/", and
// drops the query string and fragment entirely, so links that differ only by
// tracking or referral parameters collapse to one key.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" {
		return "", errors.New("url missing scheme")
	}
	if parsed.Host == "" {
		return "", errors.New("url missing host")
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)

	host := strings.ToLower(parsed.Host)
	if h, port, ok := strings.Cut(host, ":"); ok && !strings.Contains(port, ":") {
		if (parsed.Scheme == "http" && port == "80") || (parsed.Scheme == "https" && port == "443") {
			host = h
		}
	}
	parsed.Host = host

	if parsed.Path == "" {
		parsed.Path = "/"
		parsed.RawPath = ""
	}
	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String(), nil
}

// DedupKey is CanonicalURL falling back to the raw string when it cannot be parsed.
func DedupKey(raw string) string {
	key, err := CanonicalURL(raw)
	if err != nil {
		return raw
	}
	return key
}
