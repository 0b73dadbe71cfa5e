// Package rootlocator finds the project root that bounds every search.
package rootlocator

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/autobrr/otherfile/pkg/logger"
	"github.com/autobrr/otherfile/pkg/pathops"
)

type Locator struct {
	fs       pathops.FS
	markers  []string
	maxDepth int
	log      *logrus.Entry
}

// New returns a Locator checking markers in the given order. maxDepth is the
// number of ancestors examined above the starting directory.
func New(fs pathops.FS, markers []string, maxDepth int) *Locator {
	if maxDepth < 0 {
		maxDepth = 0
	}

	return &Locator{
		fs:       fs,
		markers:  markers,
		maxDepth: maxDepth,
		log:      logger.GetLogger("root"),
	}
}

// FindRoot walks upward from start and returns the first directory holding
// any root marker. When none is found within the depth bound, or the
// filesystem root is reached first, start is returned unchanged.
func (l *Locator) FindRoot(start string) string {
	current := filepath.Clean(start)

	for depth := 0; depth <= l.maxDepth; depth++ {
		if marker, ok := l.markerIn(current); ok {
			l.log.Tracef("Found root marker %q in %s", marker, current)
			return current
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	l.log.Tracef("No root marker found above %s, using it as root", start)
	return start
}

func (l *Locator) markerIn(dir string) (string, bool) {
	for _, marker := range l.markers {
		if l.fs.Exists(filepath.Join(dir, marker)) {
			return marker, true
		}
	}
	return "", false
}
