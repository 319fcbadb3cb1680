// Package scopes matches dotted permission scopes with wildcard support.
//
// A pattern matches a scope when they are equal, when the pattern is the
// global wildcard "*", or when the pattern ends in ".*" and the scope lives
// under that namespace ("users.*" matches "users.list" but not "users").
package scopes

import (
	"slices"
	"strings"
)

const (
	// Wildcard matches every scope.
	Wildcard = "*"
	// Delimiter separates scope segments.
	Delimiter = "."
)

// Matches reports whether pattern grants scope.
func Matches(scope, pattern string) bool {
	if scope == pattern || pattern == Wildcard {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, Delimiter+Wildcard); ok {
		return strings.HasPrefix(scope, prefix+Delimiter)
	}
	return false
}

// Has reports whether any pattern in granted matches scope.
func Has(granted []string, scope string) bool {
	return slices.ContainsFunc(granted, func(p string) bool { return Matches(scope, p) })
}

// HasAny reports whether granted covers at least one of required.
// An empty required list is satisfied.
func HasAny(granted []string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	return slices.ContainsFunc(required, func(s string) bool { return Has(granted, s) })
}

// HasAll reports whether granted covers every scope in required.
func HasAll(granted []string, required ...string) bool {
	for _, s := range required {
		if !Has(granted, s) {
			return false
		}
	}
	return true
}

// Normalize trims, deduplicates and sorts scopes, dropping empty entries.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
