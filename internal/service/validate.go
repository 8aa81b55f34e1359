package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MaxURLLength bounds accepted target URLs.
const MaxURLLength = 2048

var customCodeRE = regexp.MustCompile(`^[A-Za-z0-9_-]{4,16}$`)

// reserved holds path segments the HTTP layer routes itself; a code equal
// to one of them could never be reached.
var reserved = map[string]struct{}{
	"shorten": {},
	"healthz": {},
	"metrics": {},
	"api":     {},
	"admin":   {},
	"static":  {},
	"home":    {},
}

// NormalizeURL trims raw and checks it is an absolute http(s) URL with a
// host. The returned string is what gets stored.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	if len(s) > MaxURLLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidURL, MaxURLLength)
	}
	parsed, err := url.ParseRequestURI(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidURL, s)
	}
	// Restrict to http(s) for redirect safety
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" || parsed.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return s, nil
}

// ValidateCustomCode enforces allowed chars, length, and reserved words.
func ValidateCustomCode(code string) error {
	if !customCodeRE.MatchString(code) {
		return fmt.Errorf("%w: must be 4-16 chars of letters, digits, '-' or '_'", ErrInvalidCode)
	}
	if _, ok := reserved[strings.ToLower(code)]; ok {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidCode, code)
	}
	if strings.Trim(code, "0123456789") == "" {
		return fmt.Errorf("%w: must not be purely numeric", ErrInvalidCode)
	}
	return nil
}
