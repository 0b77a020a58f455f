package proxy

import (
	"errors"
	"fmt"
	"net/url"
)

// Construction errors for upstream targets.
var (
	ErrBadScheme    = errors.New("scheme must be http or https")
	ErrBadAuthority = errors.New("invalid authority")
)

// Target is the fixed upstream destination: a scheme plus an authority
// (host with optional port). Immutable once constructed.
type Target struct {
	scheme    string
	authority string
}

// NewTarget validates scheme and authority and returns a Target.
func NewTarget(scheme, authority string) (Target, error) {
	if scheme != "http" && scheme != "https" {
		return Target{}, fmt.Errorf("target scheme %q: %w", scheme, ErrBadScheme)
	}
	if authority == "" {
		return Target{}, fmt.Errorf("target authority is empty: %w", ErrBadAuthority)
	}

	u, err := url.Parse(scheme + "://" + authority + "/")
	if err != nil {
		return Target{}, fmt.Errorf("target authority %q: %w", authority, ErrBadAuthority)
	}
	// Anything beyond host:port (userinfo, path, query) is not an authority.
	if u.Host != authority || u.User != nil || u.Path != "/" || u.RawQuery != "" {
		return Target{}, fmt.Errorf("target authority %q: %w", authority, ErrBadAuthority)
	}

	return Target{scheme: scheme, authority: authority}, nil
}

// ParseTarget builds a Target from a base URL like "http://example.com:1234".
// The URL must carry nothing besides scheme and authority.
func ParseTarget(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("parse target %q: %w", raw, err)
	}
	if u.Path != "" && u.Path != "/" {
		return Target{}, fmt.Errorf("target %q carries a path: %w", raw, ErrBadAuthority)
	}
	if u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return Target{}, fmt.Errorf("target %q must be scheme://authority only: %w", raw, ErrBadAuthority)
	}
	return NewTarget(u.Scheme, u.Host)
}

// Scheme returns "http" or "https".
func (t Target) Scheme() string { return t.scheme }

// Authority returns the host (with optional port).
func (t Target) Authority() string { return t.authority }

// String returns the base URL, scheme://authority, with no trailing slash.
func (t Target) String() string { return t.scheme + "://" + t.authority }
