package config

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	"github.com/autobrr/otherfile/pkg/expression"
)

// Validate rejects configurations the lookup engine cannot run with.
func Validate(c *Configuration) error {
	if c.MaxSearchDepth < 0 {
		return errors.Errorf("max_search_depth must not be negative: %d", c.MaxSearchDepth)
	}

	if c.CacheCapacity < 1 {
		return errors.Errorf("cache_capacity must be at least 1: %d", c.CacheCapacity)
	}

	seen := make(map[string]struct{}, len(c.Extensions))
	for i, e := range c.Extensions {
		if e.From == "" {
			return errors.Errorf("extensions[%d]: from must be set", i)
		}
		if strings.Contains(e.From, ".") {
			return errors.Errorf("extensions[%d]: %q must not contain a dot", i, e.From)
		}
		if _, dup := seen[e.From]; dup {
			return errors.Errorf("extensions[%d]: duplicate mapping for %q", i, e.From)
		}
		seen[e.From] = struct{}{}
	}

	seen = make(map[string]struct{}, len(c.Patterns))
	for i, p := range c.Patterns {
		if _, dup := seen[p.From]; dup {
			return errors.Errorf("patterns[%d]: duplicate mapping for %q", i, p.From)
		}
		seen[p.From] = struct{}{}
	}

	for _, pattern := range c.IgnoreDirs {
		if _, err := regexp2.Compile(pattern, regexp2.None); err != nil {
			return errors.Wrapf(err, "ignore_dirs: invalid pattern %q", pattern)
		}
	}

	if _, err := expression.Compile(c.Exclude); err != nil {
		return errors.Wrap(err, "exclude")
	}

	return nil
}
