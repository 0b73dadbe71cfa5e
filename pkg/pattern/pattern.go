// Package pattern derives alternate base names from prefix/suffix decorations.
//
// A pattern key encodes a (prefix, suffix) pair as "prefix/suffix": "/_test" is
// a pure suffix, "test_/" a pure prefix, "test_/_spec" both. A key without a
// slash is read as a bare suffix and "" is the undecorated name.
package pattern

import (
	"strings"

	"github.com/scylladb/go-set/strset"
	"github.com/sirupsen/logrus"

	"github.com/autobrr/otherfile/pkg/logger"
)

// DefaultSuffixes are proposed for an undecorated name when no rule applies.
var DefaultSuffixes = []string{"_test", "_spec", "_impl", "_mock"}

// Rule maps one pattern key to the keys it can be switched to.
type Rule struct {
	Key     string
	Targets []string
}

// Alternate is a candidate base name together with the decoration that produced it.
type Alternate struct {
	Name   string
	Prefix string
	Suffix string
}

type Algebra struct {
	rules []Rule
	index map[string][]string
	log   *logrus.Entry
}

// New builds an Algebra. Rule order is the decomposition priority; for
// duplicate keys the first rule wins.
func New(rules []Rule) *Algebra {
	a := &Algebra{
		index: make(map[string][]string, len(rules)),
		log:   logger.GetLogger("pattern"),
	}

	for _, r := range rules {
		if _, exists := a.index[r.Key]; exists {
			continue
		}
		a.rules = append(a.rules, r)
		a.index[r.Key] = r.Targets
	}

	return a
}

// ParseKey splits a pattern key at its first slash.
func ParseKey(key string) (prefix, suffix string) {
	idx := strings.IndexByte(key, '/')
	if idx < 0 {
		return "", key
	}
	return key[:idx], key[idx+1:]
}

// Key encodes a (prefix, suffix) pair. The undecorated pair encodes as "".
func Key(prefix, suffix string) string {
	if prefix == "" && suffix == "" {
		return ""
	}
	return prefix + "/" + suffix
}

// Decompose splits baseName into (prefix, core, suffix) using the first rule
// key, in configured order, whose decoration fits and leaves a non-empty core.
// Names matching no rule come back undecorated.
func (a *Algebra) Decompose(baseName string) (prefix, core, suffix string) {
	for _, r := range a.rules {
		p, s := ParseKey(r.Key)
		if p == "" && s == "" {
			continue
		}
		if len(baseName) <= len(p)+len(s) {
			continue
		}
		if !strings.HasPrefix(baseName, p) || !strings.HasSuffix(baseName, s) {
			continue
		}

		a.log.Tracef("Decomposed %q with pattern %q", baseName, r.Key)
		return p, baseName[len(p) : len(baseName)-len(s)], s
	}

	return "", baseName, ""
}

// GenerateAlternates lists the base names reachable from (prefix, core, suffix).
// The target list is looked up under "prefix/suffix", "prefix/", "/suffix" and
// finally the bare suffix; the first key present wins, even if its list is
// empty. Without any rule the built-in DefaultSuffixes fallback is used.
// The source name itself and repeated names are left out.
func (a *Algebra) GenerateAlternates(prefix, core, suffix string) []Alternate {
	source := prefix + core + suffix

	targets, ok := a.lookup(prefix, suffix)
	if !ok {
		a.log.Tracef("No pattern rule for %q, using built-in fallback", source)
		return dedupe(source, fallback(core, suffix))
	}

	alternates := make([]Alternate, 0, len(targets))
	for _, target := range targets {
		tp, ts := ParseKey(target)
		alternates = append(alternates, Alternate{
			Name:   tp + core + ts,
			Prefix: tp,
			Suffix: ts,
		})
	}

	return dedupe(source, alternates)
}

// Names flattens alternates to their base names, preserving order.
func Names(alternates []Alternate) []string {
	names := make([]string, 0, len(alternates))
	for _, alt := range alternates {
		names = append(names, alt.Name)
	}
	return names
}

func (a *Algebra) lookup(prefix, suffix string) ([]string, bool) {
	tried := strset.New()
	for _, key := range []string{prefix + "/" + suffix, prefix + "/", "/" + suffix, suffix} {
		if tried.Has(key) {
			continue
		}
		tried.Add(key)

		if targets, ok := a.index[key]; ok {
			return targets, true
		}
	}
	return nil, false
}

func fallback(core, suffix string) []Alternate {
	if suffix != "" {
		return []Alternate{{Name: core}}
	}

	alternates := make([]Alternate, 0, len(DefaultSuffixes))
	for _, s := range DefaultSuffixes {
		alternates = append(alternates, Alternate{Name: core + s, Suffix: s})
	}
	return alternates
}

func dedupe(source string, alternates []Alternate) []Alternate {
	seen := strset.New(source)
	out := alternates[:0]
	for _, alt := range alternates {
		if alt.Name == "" || seen.Has(alt.Name) {
			continue
		}
		seen.Add(alt.Name)
		out = append(out, alt)
	}
	return out
}
