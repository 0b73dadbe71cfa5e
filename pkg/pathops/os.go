package pathops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/autobrr/otherfile/pkg/logger"
)

/* Structs */

// OS is the FS backed by the operating system.
type OS struct {
	ignore []*regexp2.Regexp
	log    *logrus.Entry
}

/* Public */

// NewOS returns an OS filesystem. Directories whose name matches any of the
// ignoreDirs patterns are pruned from Glob walks.
func NewOS(ignoreDirs []string) (*OS, error) {
	o := &OS{
		log: logger.GetLogger("pathops"),
	}

	for _, pattern := range ignoreDirs {
		re, err := regexp2.Compile(pattern, regexp2.None)
		if err != nil {
			return nil, errors.Wrapf(err, "compile ignore pattern %q", pattern)
		}
		o.ignore = append(o.ignore, re)
	}

	return o, nil
}

func (o *OS) Readable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		o.log.Tracef("File exists but cannot be opened: %q", path)
		return false
	}
	_ = f.Close()

	return true
}

func (o *OS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (o *OS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (o *OS) Glob(root, baseName, extension string) []string {
	if !o.IsDir(root) {
		return nil
	}

	var (
		matches []string
		mutex   sync.Mutex
	)

	name := FileName(baseName, extension)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			o.log.WithError(err).Tracef("Skipping unreadable path: %q", path)
			return nil
		}

		if d.IsDir() {
			if path != root && o.ignored(d.Name()) {
				o.log.Tracef("Skipping ignored folder: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != name || !o.regular(path, d) {
			return nil
		}

		mutex.Lock()
		matches = append(matches, path)
		mutex.Unlock()
		return nil
	})
	if err != nil {
		o.log.WithError(err).Debugf("Failed walking %s", root)
	}

	sort.Strings(matches)
	return matches
}

/* Private */

func (o *OS) ignored(name string) bool {
	for _, re := range o.ignore {
		if ok, err := re.MatchString(name); err == nil && ok {
			return true
		}
	}
	return false
}

// regular resolves symlinked entries so a link to a regular file counts.
func (o *OS) regular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
