// Package lookupcache holds the two LRU maps that make repeated lookups cheap:
// resolved files keyed by (root, base name, extension), and predicted target
// directories keyed by (root, source directory, source token, target token).
// Every hit is revalidated against the filesystem and evicted when stale.
package lookupcache

import (
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/autobrr/otherfile/pkg/logger"
	"github.com/autobrr/otherfile/pkg/pathops"
)

/* Structs */

type FileKey struct {
	Root      string
	BaseName  string
	Extension string
}

// Token identifies one side of a directory mapping. Extension lookups only set
// Extension; pattern lookups also carry the decoration and set Pattern, so the
// two kinds of mapping never share a key.
type Token struct {
	Pattern   bool
	Prefix    string
	Suffix    string
	Extension string
}

type DirKey struct {
	Root string
	// SourceDir is relative to Root unless it lies outside of it.
	SourceDir string
	Source    Token
	Target    Token
}

type FileEntry struct {
	Key  FileKey
	Path string
}

type DirEntry struct {
	Key DirKey
	// Dir is stored relative to Key.Root unless it lies outside of it.
	Dir string
}

type Stats struct {
	Enabled           bool
	Capacity          int
	Files             int
	Directories       int
	RecentFiles       []FileEntry
	RecentDirectories []DirEntry
}

type Cache struct {
	mu       sync.Mutex
	fs       pathops.FS
	enabled  bool
	capacity int
	files    *lru[FileKey, string]
	dirs     *lru[DirKey, string]
	log      *logrus.Entry
}

/* Public */

func ExtensionToken(extension string) Token {
	return Token{Extension: extension}
}

func PatternToken(prefix, suffix, extension string) Token {
	return Token{Pattern: true, Prefix: prefix, Suffix: suffix, Extension: extension}
}

func (t Token) String() string {
	if !t.Pattern {
		return t.Extension
	}
	return t.Prefix + "|" + t.Suffix + "." + t.Extension
}

// New returns a cache whose maps are each capped at capacity entries. When
// enabled is false every read misses and every write is dropped.
func New(fs pathops.FS, enabled bool, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Cache{
		fs:       fs,
		enabled:  enabled,
		capacity: capacity,
		files:    newLRU[FileKey, string](capacity),
		dirs:     newLRU[DirKey, string](capacity),
		log:      logger.GetLogger("cache"),
	}
}

func (c *Cache) Enabled() bool {
	return c.enabled
}

// GetFile returns the cached path for the key if it is still a readable file.
func (c *Cache) GetFile(root, baseName, extension string) (string, bool) {
	if !c.enabled {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := FileKey{Root: root, BaseName: baseName, Extension: extension}
	path, ok := c.files.get(key)
	if !ok {
		return "", false
	}

	if !c.fs.Readable(path) {
		c.log.Debugf("Evicting stale file entry: %s", path)
		c.files.remove(key)
		return "", false
	}

	return path, true
}

func (c *Cache) PutFile(root, baseName, extension, path string) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.files.put(FileKey{Root: root, BaseName: baseName, Extension: extension}, path)
}

// GetDirectory returns the absolute predicted directory for a mapping if it
// still exists.
func (c *Cache) GetDirectory(root, sourceDir string, source, target Token) (string, bool) {
	if !c.enabled {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := DirKey{Root: root, SourceDir: relative(root, sourceDir), Source: source, Target: target}
	stored, ok := c.dirs.get(key)
	if !ok {
		return "", false
	}

	dir := absolute(root, stored)
	if !c.fs.IsDir(dir) {
		c.log.Debugf("Evicting stale directory entry: %s", dir)
		c.dirs.remove(key)
		return "", false
	}

	return dir, true
}

func (c *Cache) PutDirectory(root, sourceDir string, source, target Token, targetDir string) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := DirKey{Root: root, SourceDir: relative(root, sourceDir), Source: source, Target: target}
	c.dirs.put(key, relative(root, targetDir))
}

// Clear discards both maps.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files.purge()
	c.dirs.purge()
	c.log.Debug("Cleared lookup cache")
}

// Stats reports both map sizes and up to limit most recent entries of each.
// A negative limit returns every entry.
func (c *Cache) Stats(limit int) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Enabled:     c.enabled,
		Capacity:    c.capacity,
		Files:       c.files.len(),
		Directories: c.dirs.len(),
	}

	for _, e := range c.files.recent(limit) {
		stats.RecentFiles = append(stats.RecentFiles, FileEntry{Key: e.key, Path: e.value})
	}
	for _, e := range c.dirs.recent(limit) {
		stats.RecentDirectories = append(stats.RecentDirectories, DirEntry{Key: e.key, Dir: e.value})
	}

	return stats
}

/* Private */

func relative(root, path string) string {
	if !pathops.IsWithin(path, root) {
		return path
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func absolute(root, stored string) string {
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(root, stored)
}
