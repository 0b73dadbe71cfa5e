// Package related is the entry point for presentation layers: given the file
// being viewed it resolves the project root and configuration, runs the
// tiered search and returns plain data.
package related

import (
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/autobrr/otherfile/pkg/config"
	"github.com/autobrr/otherfile/pkg/expression"
	"github.com/autobrr/otherfile/pkg/logger"
	"github.com/autobrr/otherfile/pkg/lookupcache"
	"github.com/autobrr/otherfile/pkg/pathops"
	"github.com/autobrr/otherfile/pkg/pattern"
	"github.com/autobrr/otherfile/pkg/rootlocator"
	"github.com/autobrr/otherfile/pkg/search"
)

/* Structs */

// Match is a successful lookup.
type Match struct {
	File  string
	Root  string
	Paths []string
	Tier  search.Tier
	// Attempted holds the file names that were looked for, in search order.
	Attempted []string
}

type Option func(*Finder)

// WithFS replaces the OS filesystem; ignore_dirs then has no effect.
func WithFS(fs pathops.FS) Option {
	return func(f *Finder) {
		f.fs = fs
		f.injectedFS = true
	}
}

// Finder is safe for concurrent use; lookups are serialised.
type Finder struct {
	mu         sync.Mutex
	fs         pathops.FS
	injectedFS bool
	base       *profile
	projects   map[string]*profile
	locator    *rootlocator.Locator
	cache      *lookupcache.Cache
	engine     *search.Engine
	log        *logrus.Entry
}

// profile is a configuration prepared for lookups.
type profile struct {
	cfg        *config.Configuration
	extensions map[string][]string
	algebra    *pattern.Algebra
	exclude    []expression.CompiledExpression
}

/* Public */

func New(cfg *config.Configuration, opts ...Option) (*Finder, error) {
	f := &Finder{
		log: logger.GetLogger("related"),
	}

	for _, opt := range opts {
		opt(f)
	}

	if err := f.apply(cfg); err != nil {
		return nil, err
	}

	return f, nil
}

// Reload swaps in a new configuration. Caches and project overrides are dropped.
func (f *Finder) Reload(cfg *config.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.apply(cfg)
}

// ByExtension finds files sharing the base name of file with one of the
// extensions configured for its extension.
func (f *Finder) ByExtension(file string) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file = absolute(file)
	baseName, extension, dir := pathops.SplitPath(file)
	if extension == "" {
		return nil, errors.Wrap(ErrNoExtension, file)
	}

	root := f.locator.FindRoot(dir)
	p, err := f.profileFor(root)
	if err != nil {
		return nil, err
	}

	targets, ok := p.extensions[extension]
	if !ok {
		return nil, errors.Wrapf(ErrNoMapping, "%q", extension)
	}

	attempted := make([]string, 0, len(targets))
	for _, target := range targets {
		attempted = append(attempted, pathops.FileName(baseName, target))
	}

	res := f.engineFor(p, root).SearchByExtension(root, dir, baseName, targets, extension)
	return f.finish(file, root, res, attempted)
}

// ByPattern finds files with the same extension whose base name differs from
// that of file by a configured prefix/suffix decoration.
func (f *Finder) ByPattern(file string) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file = absolute(file)
	baseName, extension, dir := pathops.SplitPath(file)
	if extension == "" {
		return nil, errors.Wrap(ErrNoExtension, file)
	}

	root := f.locator.FindRoot(dir)
	p, err := f.profileFor(root)
	if err != nil {
		return nil, err
	}

	prefix, core, suffix := p.algebra.Decompose(baseName)
	alternates := p.algebra.GenerateAlternates(prefix, core, suffix)

	attempted := make([]string, 0, len(alternates))
	for _, alt := range alternates {
		attempted = append(attempted, pathops.FileName(alt.Name, extension))
	}

	res := f.engineFor(p, root).SearchByPattern(root, dir, alternates, extension, prefix, core, suffix)
	return f.finish(file, root, res, attempted)
}

// ClearCache drops both lookup caches and every loaded project override.
func (f *Finder) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cache.Clear()
	f.projects = make(map[string]*profile)
}

// CacheStats reports cache sizes and up to limit most recent entries per map.
func (f *Finder) CacheStats(limit int) lookupcache.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cache.Stats(limit)
}

/* Private */

func (f *Finder) apply(cfg *config.Configuration) error {
	if cfg == nil {
		return errors.New("configuration is required")
	}

	if !f.injectedFS {
		osfs, err := pathops.NewOS(cfg.IgnoreDirs)
		if err != nil {
			return err
		}
		f.fs = osfs
	}

	base, err := newProfile(cfg)
	if err != nil {
		return err
	}

	f.base = base
	f.projects = make(map[string]*profile)
	f.locator = rootlocator.New(f.fs, cfg.RootMarkers, cfg.MaxSearchDepth)
	f.cache = lookupcache.New(f.fs, cfg.CacheEnabled, cfg.CacheCapacity)
	f.engine = search.New(f.fs, f.cache)

	return nil
}

// profileFor returns the project override for root when one exists, the base
// profile otherwise.
func (f *Finder) profileFor(root string) (*profile, error) {
	if p, ok := f.projects[root]; ok {
		return p, nil
	}

	p := f.base
	if name := f.base.cfg.ProjectFile; name != "" {
		path := filepath.Join(root, name)
		if f.fs.Readable(path) {
			cfg, err := config.LoadOverride(f.base.cfg, path)
			if err != nil {
				return nil, err
			}

			if p, err = newProfile(cfg); err != nil {
				return nil, errors.Wrapf(err, "project override %s", path)
			}
			f.log.Debugf("Using project override: %s", path)
		}
	}

	f.projects[root] = p
	return p, nil
}

func (f *Finder) finish(file, root string, res search.Result, attempted []string) (*Match, error) {
	if len(res.Paths) == 0 {
		return nil, &NotFoundError{File: file, Root: root, Attempted: attempted}
	}

	return &Match{
		File:      file,
		Root:      root,
		Paths:     res.Paths,
		Tier:      res.Tier,
		Attempted: attempted,
	}, nil
}

// engineFor applies the exclude expressions of p inside every search tier, so
// an excluded hit never ends the search early and is never cached.
func (f *Finder) engineFor(p *profile, root string) *search.Engine {
	if len(p.exclude) == 0 {
		return f.engine
	}

	return f.engine.Filtered(func(path string) bool {
		match, reason, err := expression.CheckSingleMatchWithReason(expression.NewCandidate(root, path), p.exclude)
		if err != nil {
			f.log.WithError(err).Warnf("Failed evaluating exclude expressions for %s", path)
			return true
		}
		if match {
			f.log.Debugf("Excluded %s (matched %q)", path, reason)
			return false
		}
		return true
	})
}

func newProfile(cfg *config.Configuration) (*profile, error) {
	exclude, err := expression.Compile(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	rules := make([]pattern.Rule, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		rules = append(rules, pattern.Rule{Key: p.From, Targets: p.To})
	}

	return &profile{
		cfg:        cfg,
		extensions: cfg.ExtensionMap(),
		algebra:    pattern.New(rules),
		exclude:    exclude,
	}, nil
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
