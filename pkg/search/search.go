// Package search runs the tiered lookup for related files: cache, predicted
// directory, upward walk, full recursive scan. The first tier producing any
// path ends the search; slower tiers are never consulted after that.
package search

import (
	"path/filepath"

	"github.com/scylladb/go-set/strset"
	"github.com/sirupsen/logrus"

	"github.com/autobrr/otherfile/pkg/logger"
	"github.com/autobrr/otherfile/pkg/lookupcache"
	"github.com/autobrr/otherfile/pkg/pathops"
	"github.com/autobrr/otherfile/pkg/pattern"
)

/* Types */

type Tier int

const (
	TierNone Tier = iota
	TierCache
	TierPrediction
	TierWalk
	TierScan
)

func (t Tier) String() string {
	switch t {
	case TierCache:
		return "cache"
	case TierPrediction:
		return "prediction"
	case TierWalk:
		return "walk"
	case TierScan:
		return "scan"
	default:
		return "none"
	}
}

// Result holds the paths found, in discovery order, and the tier that found them.
type Result struct {
	Paths []string
	Tier  Tier
}

// Accept decides whether a found path may be returned. A rejected path is
// neither returned nor cached, and does not stop the search at its tier.
type Accept func(path string) bool

type Engine struct {
	fs     pathops.FS
	cache  *lookupcache.Cache
	accept Accept
	log    *logrus.Entry
}

// candidate is one file name to look for plus the tokens of its directory mapping.
type candidate struct {
	baseName  string
	extension string
	source    lookupcache.Token
	target    lookupcache.Token
}

func (c candidate) fileName() string {
	return pathops.FileName(c.baseName, c.extension)
}

/* Public */

func New(fs pathops.FS, cache *lookupcache.Cache) *Engine {
	return &Engine{
		fs:    fs,
		cache: cache,
		log:   logger.GetLogger("search"),
	}
}

// Filtered returns an engine sharing the filesystem and cache of e that only
// reports paths accepted by accept. A nil accept allows everything.
func (e *Engine) Filtered(accept Accept) *Engine {
	return &Engine{
		fs:     e.fs,
		cache:  e.cache,
		accept: accept,
		log:    e.log,
	}
}

// SearchByExtension looks for baseName with each of targetExtensions, in
// priority order, starting near startDir and bounded by root.
func (e *Engine) SearchByExtension(root, startDir, baseName string, targetExtensions []string,
	sourceExtension string) Result {

	candidates := make([]candidate, 0, len(targetExtensions))
	for _, ext := range targetExtensions {
		candidates = append(candidates, candidate{
			baseName:  baseName,
			extension: ext,
			source:    lookupcache.ExtensionToken(sourceExtension),
			target:    lookupcache.ExtensionToken(ext),
		})
	}

	e.log.Debugf("Searching %s.%v from %s (root: %s)", baseName, targetExtensions, startDir, root)
	return e.search(root, startDir, candidates)
}

// SearchByPattern looks for each alternate base name with the fixed extension.
// Directory mappings are keyed by the source and alternate decorations.
func (e *Engine) SearchByPattern(root, startDir string, alternates []pattern.Alternate, extension string,
	sourcePrefix, core, sourceSuffix string) Result {

	source := lookupcache.PatternToken(sourcePrefix, sourceSuffix, extension)

	candidates := make([]candidate, 0, len(alternates))
	for _, alt := range alternates {
		candidates = append(candidates, candidate{
			baseName:  alt.Name,
			extension: extension,
			source:    source,
			target:    lookupcache.PatternToken(alt.Prefix, alt.Suffix, extension),
		})
	}

	e.log.Debugf("Searching alternates of %q %v with .%s from %s (root: %s)", core, pattern.Names(alternates),
		extension, startDir, root)
	return e.search(root, startDir, candidates)
}

/* Private */

func (e *Engine) search(root, startDir string, candidates []candidate) Result {
	if len(candidates) == 0 {
		return Result{Tier: TierNone}
	}

	root = filepath.Clean(root)
	startDir = filepath.Clean(startDir)

	tiers := []struct {
		tier Tier
		fn   func(root, startDir string, candidates []candidate, found *collector)
	}{
		{TierCache, e.fromCache},
		{TierPrediction, e.fromPrediction},
		{TierWalk, e.fromWalk},
		{TierScan, e.fromScan},
	}

	for _, t := range tiers {
		found := newCollector()
		t.fn(root, startDir, candidates, found)

		if len(found.paths) > 0 {
			e.log.Debugf("Found %d path(s) in %s tier", len(found.paths), t.tier)
			return Result{Paths: found.paths, Tier: t.tier}
		}

		e.log.Tracef("Nothing found in %s tier", t.tier)
	}

	return Result{Tier: TierNone}
}

func (e *Engine) fromCache(root, _ string, candidates []candidate, found *collector) {
	for _, c := range candidates {
		if path, ok := e.cache.GetFile(root, c.baseName, c.extension); ok && e.allowed(path) {
			found.add(path)
		}
	}
}

func (e *Engine) fromPrediction(root, startDir string, candidates []candidate, found *collector) {
	for _, c := range candidates {
		dir, ok := e.cache.GetDirectory(root, startDir, c.source, c.target)
		if !ok {
			continue
		}

		path := filepath.Join(dir, c.fileName())
		if !e.fs.Readable(path) {
			e.log.Tracef("Predicted directory %s has no %s", dir, c.fileName())
			continue
		}
		if !e.allowed(path) {
			continue
		}

		e.remember(root, startDir, c, path)
		found.add(path)
	}
}

// fromWalk checks startDir and each ancestor up to root. Unlike a full
// collection of every hit between startDir and root, each candidate is taken
// only from the nearest directory holding an accepted copy of it; farther
// copies are not reported.
func (e *Engine) fromWalk(root, startDir string, candidates []candidate, found *collector) {
	done := make([]bool, len(candidates))

	for _, dir := range walkUp(root, startDir) {
		for i, c := range candidates {
			if done[i] {
				continue
			}

			path := filepath.Join(dir, c.fileName())
			if !e.fs.Readable(path) || !e.allowed(path) {
				continue
			}

			done[i] = true
			e.remember(root, startDir, c, path)
			found.add(path)
		}
	}
}

func (e *Engine) fromScan(root, startDir string, candidates []candidate, found *collector) {
	for _, c := range candidates {
		var matches []string
		for _, path := range e.fs.Glob(root, c.baseName, c.extension) {
			if e.allowed(path) {
				matches = append(matches, path)
			}
		}
		if len(matches) == 0 {
			continue
		}

		// every match is cached; the first one has to end up resident
		for i := len(matches) - 1; i >= 0; i-- {
			e.remember(root, startDir, c, matches[i])
		}

		for _, path := range matches {
			found.add(path)
		}
	}
}

func (e *Engine) allowed(path string) bool {
	if e.accept == nil || e.accept(path) {
		return true
	}

	e.log.Tracef("Rejected %s", path)
	return false
}

func (e *Engine) remember(root, startDir string, c candidate, path string) {
	e.cache.PutFile(root, c.baseName, c.extension, path)
	e.cache.PutDirectory(root, startDir, c.source, c.target, filepath.Dir(path))
}

// walkUp lists startDir and its ancestors, nearest first, ending at root.
// The walk stops early when the next parent leaves root or the filesystem
// root is reached.
func walkUp(root, startDir string) []string {
	var dirs []string

	current := startDir
	for {
		dirs = append(dirs, current)
		if current == root {
			break
		}

		parent := filepath.Dir(current)
		if parent == current || !pathops.IsWithin(parent, root) {
			break
		}
		current = parent
	}

	return dirs
}

type collector struct {
	seen  *strset.Set
	paths []string
}

func newCollector() *collector {
	return &collector{seen: strset.New()}
}

func (c *collector) add(path string) {
	if c.seen.Has(path) {
		return
	}
	c.seen.Add(path)
	c.paths = append(c.paths, path)
}
