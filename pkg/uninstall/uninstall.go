// Package uninstall reverses placement: chest-originated symlinks in
// each instance are replaced by real copies of their targets (or by
// direct links to targets outside the chest), leaving the instances
// independent of the EnderChest.
package uninstall

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/enderlink/enderlink/pkg/instance"
	"github.com/enderlink/enderlink/pkg/logging"
)

// Report tallies the per-resource outcomes of a break run
type Report struct {
	// Replaced counts symlinks materialized into real files or folders
	Replaced int

	// Relinked counts symlinks re-pointed straight at a target outside
	// the chest (the chest was only an intermediate hop)
	Relinked int

	// Skipped counts symlinks that were not chest-managed and were left
	// untouched
	Skipped int

	// Failed counts resources that could not be processed; they are
	// logged and left as-is
	Failed int
}

// Break walks every instance tree and severs its dependence on the
// chest. It never fails wholesale: per-resource problems (permissions,
// vanished files, unresolvable link chains) are logged, counted and
// skipped, and an unwalkable instance only affects its own subtree.
//
// Break deliberately consumes nothing but the chest root and the
// instance list; matching and priority play no part in uninstalling.
func Break(chestRoot string, instances []instance.Spec) Report {
	logger := logging.GetLogger("uninstall")
	done := logging.LogOperationStart(logger, "break")
	defer done()

	var report Report

	// normalize once so "inside the chest" checks are stable even when
	// the chest path itself goes through a symlink
	if resolved, err := filepath.EvalSymlinks(chestRoot); err == nil {
		chestRoot = resolved
	}
	chestRoot, _ = filepath.Abs(chestRoot)

	for _, inst := range instances {
		logger.Info().Str("instance", inst.Name).Msg("copying chest files into instance")
		walkErr := filepath.WalkDir(inst.Root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("cannot walk path, skipping")
				report.Failed++
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			breakLink(chestRoot, path, &report, logger)
			return nil
		})
		if walkErr != nil {
			logger.Warn().Err(walkErr).Str("instance", inst.Name).Msg("could not finish walking instance")
			report.Failed++
		}
	}

	logger.Info().
		Int("replaced", report.Replaced).
		Int("relinked", report.Relinked).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("EnderChest has been uninstalled")

	return report
}

// breakLink handles a single symlink found in an instance tree
func breakLink(chestRoot, linkPath string, report *Report, logger zerolog.Logger) {
	immediate, err := os.Readlink(linkPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", linkPath).Msg("cannot read symlink")
		report.Failed++
		return
	}

	// one hop, not resolved
	immediateTarget := immediate
	if !filepath.IsAbs(immediateTarget) {
		immediateTarget = filepath.Join(filepath.Dir(linkPath), immediateTarget)
	}
	immediateTarget = filepath.Clean(immediateTarget)

	resolvedTarget, resolveErr := filepath.EvalSymlinks(linkPath)

	immediateInChest := within(chestRoot, immediateTarget)
	resolvedInChest := resolveErr == nil && within(chestRoot, resolvedTarget)

	if !immediateInChest && !resolvedInChest {
		// not chest-managed; a user's own links are none of our business
		report.Skipped++
		return
	}

	if resolveErr != nil {
		// chest-relative link whose chain cannot be fully resolved:
		// leave the original link in place rather than guess
		logger.Warn().Err(resolveErr).
			Str("path", linkPath).
			Str("target", immediate).
			Msg("cannot resolve symlink chain, leaving link as-is")
		report.Failed++
		return
	}

	if err := os.Remove(linkPath); err != nil {
		logger.Warn().Err(err).Str("path", linkPath).Msg("cannot remove symlink")
		report.Failed++
		return
	}
	logger.Debug().Str("path", linkPath).Str("target", immediate).Msg("removed link")

	if resolvedInChest {
		if err := materialize(resolvedTarget, linkPath); err != nil {
			logger.Warn().Err(err).
				Str("source", resolvedTarget).
				Str("destination", linkPath).
				Msg("failed to copy target into instance")
			report.Failed++
			return
		}
		logger.Debug().Str("source", resolvedTarget).Str("destination", linkPath).Msg("copied target into instance")
		report.Replaced++
		return
	}

	// the chest was only an intermediate hop; keep the link working by
	// pointing it straight at the external target
	if err := os.Symlink(resolvedTarget, linkPath); err != nil {
		logger.Warn().Err(err).
			Str("path", linkPath).
			Str("target", resolvedTarget).
			Msg("failed to relink to external target")
		report.Failed++
		return
	}
	logger.Debug().Str("path", linkPath).Str("target", resolvedTarget).Msg("relinked to external target")
	report.Relinked++
}

// materialize copies the resolved target to the original link location:
// a recursive copy for directories, a byte copy for files
func materialize(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyTree(source, destination)
	}
	return copyFile(source, destination, info.Mode())
}

// copyTree recursively copies a directory, preserving symlinks as
// symlinks instead of following them
func copyTree(source, destination string) error {
	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destination, rel)

		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case entry.Type()&fs.ModeSymlink != 0:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(linkTarget, target)
		default:
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return copyFile(path, target, info.Mode())
		}
	})
}

// copyFile copies file contents and permissions
func copyFile(source, destination string, mode fs.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// within reports whether path lies inside root (or is root itself)
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
