package middleware

import "strings"

// PublicPaths is the allow-list of routes reachable without a token.
// Patterns are exact paths, or prefixes written as "/prefix/**".
type PublicPaths struct {
	exact    map[string]struct{}
	prefixes []string
}

func NewPublicPaths(patterns ...string) *PublicPaths {
	p := &PublicPaths{exact: make(map[string]struct{})}
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			p.prefixes = append(p.prefixes, prefix)
			continue
		}
		p.exact[normalizePath(pattern)] = struct{}{}
	}
	return p
}

func DefaultPublicPaths() *PublicPaths {
	return NewPublicPaths(
		"/api/v1/auth/signup",
		"/api/v1/auth/login",
		"/api/v1/auth/reissue",
		"/api/v1/users/profiles",
		"/health",
		"/uploads/**",
	)
}

func (p *PublicPaths) Match(path string) bool {
	if p == nil {
		return false
	}
	path = normalizePath(path)
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
