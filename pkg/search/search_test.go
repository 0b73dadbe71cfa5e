package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/otherfile/pkg/lookupcache"
	"github.com/autobrr/otherfile/pkg/pathops"
	"github.com/autobrr/otherfile/pkg/pattern"
)

func newEngine(fs pathops.FS, cacheEnabled bool) (*Engine, *lookupcache.Cache) {
	cache := lookupcache.New(fs, cacheEnabled, 50)
	return New(fs, cache), cache
}

func TestEngine_ColdThenWarm(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/include/foo.h")
	e, _ := newEngine(fs, true)

	cold := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/include/foo.h"}, cold.Paths)
	assert.Equal(t, TierScan, cold.Tier)

	warm := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, cold.Paths, warm.Paths)
	assert.Equal(t, TierCache, warm.Tier)
}

func TestEngine_PredictionTier(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/include/foo.h", "/proj/src/bar.c", "/proj/include/bar.h")
	e, _ := newEngine(fs, true)

	first := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	require.Equal(t, TierScan, first.Tier)

	second := e.SearchByExtension("/proj", "/proj/src", "bar", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/include/bar.h"}, second.Paths)
	assert.Equal(t, TierPrediction, second.Tier)

	third := e.SearchByExtension("/proj", "/proj/src", "bar", []string{"h"}, "c")
	assert.Equal(t, TierCache, third.Tier)
}

func TestEngine_PredictionMissFallsThrough(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/include/foo.h", "/proj/src/baz.c", "/proj/src/baz.h")
	e, _ := newEngine(fs, true)

	e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")

	res := e.SearchByExtension("/proj", "/proj/src", "baz", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/src/baz.h"}, res.Paths)
	assert.Equal(t, TierWalk, res.Tier)
}

func TestEngine_WalkTierNearestFirst(t *testing.T) {
	fs := pathops.NewMemory(
		"/proj/src/a/b/foo.c",
		"/proj/src/foo.h",
		"/proj/foo.h",
		"/proj/src/a/foo.hpp",
		"/proj/src/a/b/qux.c",
		"/proj/src/qux.h",
	)
	e, _ := newEngine(fs, true)

	res := e.SearchByExtension("/proj", "/proj/src/a/b", "foo", []string{"h", "hpp"}, "c")
	assert.Equal(t, []string{"/proj/src/a/foo.hpp", "/proj/src/foo.h"}, res.Paths)
	assert.Equal(t, TierWalk, res.Tier)

	// mapping is keyed by the original start directory
	res = e.SearchByExtension("/proj", "/proj/src/a/b", "qux", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/src/qux.h"}, res.Paths)
	assert.Equal(t, TierPrediction, res.Tier)
}

func TestEngine_CacheShortCircuits(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/src/foo.h", "/proj/legacy/foo.h")
	e, cache := newEngine(fs, true)

	cache.PutFile("/proj", "foo", "h", "/proj/legacy/foo.h")

	res := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/legacy/foo.h"}, res.Paths)
	assert.Equal(t, TierCache, res.Tier)
}

func TestEngine_StaleCacheSelfHeals(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/src/foo.h", "/proj/legacy/foo.h")
	e, cache := newEngine(fs, true)

	cache.PutFile("/proj", "foo", "h", "/proj/legacy/foo.h")
	fs.Remove("/proj/legacy")

	res := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/src/foo.h"}, res.Paths)
	assert.Equal(t, TierWalk, res.Tier)
}

func TestEngine_ExtensionPriorityOrder(t *testing.T) {
	fs := pathops.NewMemory("/proj/include/foo.h", "/proj/lib/foo.c", "/proj/lib/foo.cpp")
	e, _ := newEngine(fs, true)

	res := e.SearchByExtension("/proj", "/proj/include", "foo", []string{"cpp", "cc", "c"}, "h")
	assert.Equal(t, []string{"/proj/lib/foo.cpp", "/proj/lib/foo.c"}, res.Paths)
	assert.Equal(t, TierScan, res.Tier)

	res = e.SearchByExtension("/proj", "/proj/include", "foo", []string{"cpp", "cc", "c"}, "h")
	assert.Equal(t, []string{"/proj/lib/foo.cpp", "/proj/lib/foo.c"}, res.Paths)
	assert.Equal(t, TierCache, res.Tier)
}

func TestEngine_ScanCachesFirstMatch(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/a/foo.h", "/proj/b/foo.h")
	e, cache := newEngine(fs, true)

	res := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/a/foo.h", "/proj/b/foo.h"}, res.Paths)

	path, ok := cache.GetFile("/proj", "foo", "h")
	require.True(t, ok)
	assert.Equal(t, "/proj/a/foo.h", path)

	dir, ok := cache.GetDirectory("/proj", "/proj/src", lookupcache.ExtensionToken("c"), lookupcache.ExtensionToken("h"))
	require.True(t, ok)
	assert.Equal(t, "/proj/a", dir)
}

func TestEngine_ScanWarmCallReturnsFirstMatchOnly(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/a/foo.h", "/proj/b/foo.h")
	e, _ := newEngine(fs, true)

	cold := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/a/foo.h", "/proj/b/foo.h"}, cold.Paths)
	assert.Equal(t, TierScan, cold.Tier)

	// one file slot per (root, name, extension): the warm answer narrows to the first match
	warm := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/a/foo.h"}, warm.Paths)
	assert.Equal(t, TierCache, warm.Tier)
}

func TestEngine_RejectedPathsFallThrough(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/src/foo.h", "/proj/include/foo.h", "/proj/vendor/foo.h")
	base, cache := newEngine(fs, true)
	e := base.Filtered(func(path string) bool {
		return path == "/proj/include/foo.h"
	})

	res := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, []string{"/proj/include/foo.h"}, res.Paths)
	assert.Equal(t, TierScan, res.Tier)

	path, ok := cache.GetFile("/proj", "foo", "h")
	require.True(t, ok)
	assert.Equal(t, "/proj/include/foo.h", path)
	assert.Equal(t, 1, cache.Stats(0).Files)

	// the unfiltered engine shares the cache
	res = base.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Equal(t, TierCache, res.Tier)

	// a cached path the filter rejects does not short-circuit either
	none := base.Filtered(func(string) bool { return false })
	res = none.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Empty(t, res.Paths)
	assert.Equal(t, TierNone, res.Tier)
}

func TestEngine_StaysWithinRoot(t *testing.T) {
	fs := pathops.NewMemory("/foo.h", "/proj/src/foo.c", "/elsewhere/foo.h")
	e, _ := newEngine(fs, true)

	res := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
	assert.Empty(t, res.Paths)
	assert.Equal(t, TierNone, res.Tier)
}

func TestEngine_EmptyTargets(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c")
	e, _ := newEngine(fs, true)

	res := e.SearchByExtension("/proj", "/proj/src", "foo", nil, "c")
	assert.Empty(t, res.Paths)
	assert.Equal(t, TierNone, res.Tier)

	res = e.SearchByPattern("/proj", "/proj/src", nil, "c", "", "foo", "")
	assert.Empty(t, res.Paths)
	assert.Equal(t, TierNone, res.Tier)
}

func TestEngine_Idempotent(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		fs := pathops.NewMemory("/proj/src/foo.c", "/proj/include/foo.h", "/proj/src/foo.hpp")
		e, _ := newEngine(fs, enabled)

		first := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h", "hpp"}, "c")
		require.NotEmpty(t, first.Paths)
		for i := 0; i < 3; i++ {
			again := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h", "hpp"}, "c")
			assert.Equal(t, first.Paths, again.Paths)
		}
	}
}

func TestEngine_IdempotentByPattern(t *testing.T) {
	alts := []pattern.Alternate{
		{Name: "foo_test", Suffix: "_test"},
		{Name: "test_foo", Prefix: "test_"},
		{Name: "foo_spec", Suffix: "_spec"},
	}

	for _, enabled := range []bool{true, false} {
		fs := pathops.NewMemory("/proj/src/foo.go", "/proj/src/foo_test.go", "/proj/test/test_foo.go")
		e, _ := newEngine(fs, enabled)

		first := e.SearchByPattern("/proj", "/proj/src", alts, "go", "", "foo", "")
		require.NotEmpty(t, first.Paths)
		for i := 0; i < 3; i++ {
			again := e.SearchByPattern("/proj", "/proj/src", alts, "go", "", "foo", "")
			assert.Equal(t, first.Paths, again.Paths)
		}
	}
}

func TestEngine_CacheDisabledAlwaysSearches(t *testing.T) {
	fs := pathops.NewMemory("/proj/src/foo.c", "/proj/include/foo.h")
	e, _ := newEngine(fs, false)

	for i := 0; i < 2; i++ {
		res := e.SearchByExtension("/proj", "/proj/src", "foo", []string{"h"}, "c")
		assert.Equal(t, []string{"/proj/include/foo.h"}, res.Paths)
		assert.Equal(t, TierScan, res.Tier)
	}
}

func TestEngine_SearchByPattern(t *testing.T) {
	fs := pathops.NewMemory(
		"/proj/src/foo.go",
		"/proj/tests/foo_test.go",
		"/proj/src/bar.go",
		"/proj/tests/bar_test.go",
		"/proj/src/baz.go",
		"/proj/src/baz_test.go",
	)
	e, _ := newEngine(fs, true)
	alts := func(core string) []pattern.Alternate {
		return []pattern.Alternate{{Name: core + "_test", Suffix: "_test"}, {Name: core + "_spec", Suffix: "_spec"}}
	}

	res := e.SearchByPattern("/proj", "/proj/src", alts("foo"), "go", "", "foo", "")
	assert.Equal(t, []string{"/proj/tests/foo_test.go"}, res.Paths)
	assert.Equal(t, TierScan, res.Tier)

	res = e.SearchByPattern("/proj", "/proj/src", alts("bar"), "go", "", "bar", "")
	assert.Equal(t, []string{"/proj/tests/bar_test.go"}, res.Paths)
	assert.Equal(t, TierPrediction, res.Tier)

	res = e.SearchByPattern("/proj", "/proj/src", alts("baz"), "go", "", "baz", "")
	assert.Equal(t, []string{"/proj/src/baz_test.go"}, res.Paths)
	assert.Equal(t, TierWalk, res.Tier)

	res = e.SearchByPattern("/proj", "/proj/src", alts("foo"), "go", "", "foo", "")
	assert.Equal(t, []string{"/proj/tests/foo_test.go"}, res.Paths)
	assert.Equal(t, TierCache, res.Tier)
}

func TestEngine_PatternMappingsDoNotCollide(t *testing.T) {
	fs := pathops.NewMemory(
		"/proj/src/foo.go",
		"/proj/tests/foo_test.go",
		"/proj/specs/foo_spec.go",
		"/proj/src/bar.go",
		"/proj/specs/bar_spec.go",
		"/proj/tests/bar_test.go",
	)
	e, _ := newEngine(fs, true)

	e.SearchByPattern("/proj", "/proj/src", []pattern.Alternate{{Name: "foo_test", Suffix: "_test"}}, "go", "", "foo", "")
	e.SearchByPattern("/proj", "/proj/src", []pattern.Alternate{{Name: "foo_spec", Suffix: "_spec"}}, "go", "", "foo", "")

	res := e.SearchByPattern("/proj", "/proj/src", []pattern.Alternate{
		{Name: "bar_test", Suffix: "_test"},
		{Name: "bar_spec", Suffix: "_spec"},
	}, "go", "", "bar", "")
	assert.Equal(t, []string{"/proj/tests/bar_test.go", "/proj/specs/bar_spec.go"}, res.Paths)
	assert.Equal(t, TierPrediction, res.Tier)
}

func TestWalkUp(t *testing.T) {
	assert.Equal(t, []string{"/proj/a/b", "/proj/a", "/proj"}, walkUp("/proj", "/proj/a/b"))
	assert.Equal(t, []string{"/proj"}, walkUp("/proj", "/proj"))
	assert.Equal(t, []string{"/other/x"}, walkUp("/proj", "/other/x"))
	assert.Equal(t, []string{"/a", "/"}, walkUp("/", "/a"))
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "cache", TierCache.String())
	assert.Equal(t, "scan", TierScan.String())
	assert.Equal(t, "none", Tier(42).String())
}
