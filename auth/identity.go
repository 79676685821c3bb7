package auth

import (
	"net/url"
	"strings"
)

// NormalizeMe reduces a claimed identity to its canonical form: the
// lowercased host with "https://" prepended and any path dropped, so
// "Example.com/about" and "http://example.com" both become
// "https://example.com/".
func NormalizeMe(claimed string) (string, error) {
	claimed = strings.TrimSpace(claimed)
	if claimed == "" {
		return "", ErrInvalidIdentity
	}

	if !strings.Contains(claimed, "://") {
		claimed = "https://" + claimed
	}

	u, err := url.Parse(claimed)
	if err != nil {
		return "", ErrInvalidIdentity
	}

	host := strings.ToLower(u.Host)
	if u.Hostname() == "" || strings.ContainsAny(host, "@ ") {
		return "", ErrInvalidIdentity
	}

	return "https://" + host + "/", nil
}

// DomainOf returns the host part of a URL, used when comparing an
// identity against the configured client domain.
func DomainOf(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return ""
	}
	if u.Host == "" {
		// bare domains like "example.com" end up in the path
		return strings.ToLower(strings.SplitN(u.Path, "/", 2)[0])
	}
	return strings.ToLower(u.Host)
}
