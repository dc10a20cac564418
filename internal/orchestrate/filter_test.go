package orchestrate

import (
	"errors"
	"testing"
)

func TestNewFilterRejectsBothSets(t *testing.T) {
	_, err := NewFilter([]string{"prod"}, []string{"test"})
	if err == nil {
		t.Fatal("expected error when both include and exclude patterns are set")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{"no patterns matches all", nil, nil, "/data/anything", true},
		{"include match", []string{"prod"}, nil, "/data/prod-db1", true},
		{"include miss", []string{"prod"}, nil, "/data/test-db1", false},
		{"include any-of", []string{"prod", "staging"}, nil, "/data/staging-db", true},
		{"exclude match", nil, []string{"test"}, "/data/test-db1", false},
		{"exclude miss", nil, []string{"test"}, "/data/prod-db1", true},
		{"exclude any-of", nil, []string{"test", "temp"}, "/data/temp-cache", false},
		// Patterns are literal substrings, not globs. "prod-*" only
		// matches a path that literally contains "prod-*".
		{"glob-like pattern is literal", []string{"prod-*"}, nil, "/data/prod-db1", false},
		// The filesystem API reports directories with trailing slashes;
		// substring matching must not care.
		{"trailing slash on candidate", []string{"tess"}, nil, "/snapz/tessdasd/", true},
		{"trailing slash non-match", []string{"tess"}, nil, "/snapz/other/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := mustFilter(t, tt.include, tt.exclude)
			if got := filter.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNilFilterMatchesAll(t *testing.T) {
	var filter *Filter
	if !filter.Match("/data/whatever") {
		t.Error("nil filter should match everything")
	}
	if !filter.Empty() {
		t.Error("nil filter should be empty")
	}
}
