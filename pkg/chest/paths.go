package chest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/enderlink/enderlink/pkg/errors"
)

// NormalizePath brings a user- or config-supplied path into the one form
// the engines operate on: "~" expanded, relative paths resolved against
// base, Windows verbatim prefixes stripped, and the result cleaned. Core
// packages never normalize; it happens once, here, at the boundary.
func NormalizePath(path, base string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	// long-path/verbatim prefix some Windows tooling leaves behind
	path = strings.TrimPrefix(path, `\\?\`)

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot expand ~")
		}
		path = filepath.Join(home, path[1:])
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path), nil
}
