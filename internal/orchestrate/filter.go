package orchestrate

import "strings"

// Filter decides whether a discovered directory participates in create/clean
// operations. Patterns are literal substrings, not globs: "prod-*" matches
// nothing unless the path literally contains "prod-*". Include and exclude
// sets are mutually exclusive.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter validates the pattern sets and builds a Filter. Supplying both
// include and exclude patterns is a ConfigError; this is checked before any
// I/O happens.
func NewFilter(include, exclude []string) (*Filter, error) {
	if len(include) > 0 && len(exclude) > 0 {
		return nil, configErrorf("include and exclude filters are mutually exclusive")
	}
	return &Filter{include: include, exclude: exclude}, nil
}

// Match reports whether path participates. With an include set, at least one
// pattern must occur in the path; with an exclude set, no pattern may occur.
// An empty filter matches everything. Matching is substring-based, so a
// trailing slash on the candidate path never defeats a match.
func (f *Filter) Match(path string) bool {
	if f == nil {
		return true
	}
	if len(f.include) > 0 {
		for _, pattern := range f.include {
			if strings.Contains(path, pattern) {
				return true
			}
		}
		return false
	}
	for _, pattern := range f.exclude {
		if strings.Contains(path, pattern) {
			return false
		}
	}
	return true
}

// Empty reports whether the filter has no patterns at all.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.include) == 0 && len(f.exclude) == 0)
}
