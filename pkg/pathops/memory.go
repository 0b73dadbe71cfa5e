package pathops

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory FS. Adding a file implicitly creates its ancestors.
type Memory struct {
	mu         sync.RWMutex
	files      map[string]struct{}
	dirs       map[string]struct{}
	unreadable map[string]struct{}
}

func NewMemory(files ...string) *Memory {
	m := &Memory{
		files:      make(map[string]struct{}),
		dirs:       make(map[string]struct{}),
		unreadable: make(map[string]struct{}),
	}

	for _, f := range files {
		m.AddFile(f)
	}

	return m
}

func (m *Memory) AddFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	m.files[path] = struct{}{}
	m.addDirsLocked(filepath.Dir(path))
}

func (m *Memory) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addDirsLocked(filepath.Clean(path))
}

// SetUnreadable marks an existing file as present but not openable.
func (m *Memory) SetUnreadable(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unreadable[filepath.Clean(path)] = struct{}{}
}

// Remove deletes a file, or a directory together with everything below it.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	delete(m.files, path)
	delete(m.unreadable, path)

	if _, ok := m.dirs[path]; !ok {
		return
	}

	delete(m.dirs, path)
	prefix := dirPrefix(path)
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
}

func (m *Memory) Readable(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path = filepath.Clean(path)
	_, ok := m.files[path]
	_, blocked := m.unreadable[path]
	return ok && !blocked
}

func (m *Memory) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.dirs[filepath.Clean(path)]
	return ok
}

func (m *Memory) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		return true
	}
	_, ok := m.dirs[path]
	return ok
}

func (m *Memory) Glob(root, baseName, extension string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	root = filepath.Clean(root)
	if _, ok := m.dirs[root]; !ok {
		return nil
	}

	name := FileName(baseName, extension)
	prefix := dirPrefix(root)

	var matches []string
	for f := range m.files {
		if strings.HasPrefix(f, prefix) && filepath.Base(f) == name {
			matches = append(matches, f)
		}
	}

	sort.Strings(matches)
	return matches
}

func (m *Memory) addDirsLocked(dir string) {
	for {
		m.dirs[dir] = struct{}{}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func dirPrefix(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
