package related

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoExtension is returned for files without an extension; nothing can
	// be resolved for them.
	ErrNoExtension = errors.New("file has no extension")
	// ErrNoMapping is returned when the file's extension has no configured targets.
	ErrNoMapping = errors.New("no mapping configured for extension")
)

// NotFoundError reports a lookup that ran every tier without a match.
type NotFoundError struct {
	File string
	Root string
	// Attempted holds the file names that were looked for, in search order.
	Attempted []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no related file found for %s under %s (tried: %s)", e.File, e.Root,
		strings.Join(e.Attempted, ", "))
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
