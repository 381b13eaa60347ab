package checker

import (
	"net/url"
	"strings"

	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
)

// TargetInfo contains parsed target information
type TargetInfo struct {
	Original string // Original target string
	Scheme   string // http or https
	Host     string // Hostname (without protocol, path, port)
	Port     string // Port if specified
	Path     string // Path if specified
	FullURL  string // Normalized URL used for the request
}

// NormalizeURL trims the input and prepends https:// unless it already starts
// with http:// or https://. The prefix test is case-sensitive.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// ValidateURL checks that a normalized URL parses and names a host.
func ValidateURL(normalized string) (*url.URL, error) {
	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, &CheckError{Kind: KindGeneric, Detail: err.Error(), Cause: err}
	}
	if parsed.Host == "" {
		return nil, &CheckError{Kind: KindInvalidURL, Detail: normalized, Cause: sharederrors.ErrInvalidURL}
	}
	return parsed, nil
}

// ParseTarget normalizes a target string and splits it into components.
// Components are left empty when the normalized URL does not parse.
func ParseTarget(target string) *TargetInfo {
	info := &TargetInfo{
		Original: target,
		FullURL:  NormalizeURL(target),
	}

	if parsed, err := url.Parse(info.FullURL); err == nil {
		info.Scheme = parsed.Scheme
		info.Host = parsed.Hostname()
		info.Port = parsed.Port()
		info.Path = parsed.Path
	}

	return info
}

// ExtractHost extracts just the hostname from a target.
func ExtractHost(target string) string {
	return ParseTarget(target).Host
}
