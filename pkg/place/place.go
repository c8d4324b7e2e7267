// Package place overlays shulker boxes onto instances by creating
// symlinks from each instance tree into the EnderChest.
package place

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/instance"
	"github.com/enderlink/enderlink/pkg/logging"
	"github.com/enderlink/enderlink/pkg/shulker"
	"github.com/enderlink/enderlink/pkg/wildcard"
)

// Options configures a placement run. Instance and box values are read,
// never mutated; all paths are expected to be normalized already.
type Options struct {
	Instances []instance.Spec
	Boxes     []shulker.Box

	// Host is the local machine name checked against each box's hosts
	// criterion. It is passed in explicitly so the engine stays free of
	// ambient environment lookups.
	Host string

	// KeepBrokenLinks disables the cleanup pass that removes dangling
	// symlinks from an instance before boxes are applied to it
	KeepBrokenLinks bool

	// OnConflict is the standing conflict policy; empty selects prompt
	OnConflict Policy

	// Prompter is consulted when the effective policy is prompt
	Prompter Prompter

	// AbsoluteLinks makes symlink targets absolute paths instead of
	// paths relative to the destination's parent
	AbsoluteLinks bool
}

// Place applies every matching (box, instance) pair in priority order.
// Boxes are iterated outer and instances inner: later boxes must observe
// the filesystem state earlier boxes left behind, so that colliding
// resources are overwritten in ascending (priority, name) order and the
// highest box wins. Placement is strictly sequential for the same reason.
//
// Only an abort (from policy or a half-completed link swap) makes Place
// return an error; the filesystem must then be treated as partially
// modified up to the abort point. Everything else is absorbed at the
// resource level per the conflict policy.
func Place(opts Options) error {
	logger := logging.GetLogger("place")
	done := logging.LogOperationStart(logger, "place")
	defer done()

	policy := opts.OnConflict
	if policy == "" {
		policy = PolicyPrompt
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return err
	}

	boxes := make([]shulker.Box, len(opts.Boxes))
	copy(boxes, opts.Boxes)
	if err := shulker.SortByPriority(boxes); err != nil {
		return err
	}

	cleaned := make(map[string]bool, len(opts.Instances))

boxLoop:
	for _, box := range boxes {
		if err := box.Validate(); err != nil {
			logger.Warn().Err(err).Str("box", box.Name).
				Msg("skipping misconfigured shulker box")
			continue
		}
		if !box.MatchesHost(opts.Host) {
			logger.Debug().Str("box", box.Name).Str("host", opts.Host).
				Msg("shulker box does not apply to this host")
			continue
		}

		for _, inst := range opts.Instances {
			matched, err := box.Matches(inst)
			if err != nil {
				logger.Warn().Err(err).Str("box", box.Name).
					Msg("skipping misconfigured shulker box")
				continue boxLoop
			}
			if !matched {
				continue
			}

			if !opts.KeepBrokenLinks && !cleaned[inst.Name] {
				cleanBrokenLinks(inst.Root, logger)
				cleaned[inst.Name] = true
			}

			result, err := linkBox(box, inst, policy, opts, logger)
			if err != nil {
				return err
			}
			if result == outcomeSkipBox {
				continue boxLoop
			}
		}
	}

	return nil
}

// resource is one linkable path inside a box
type resource struct {
	// rel is the path relative to the box root
	rel string

	// wholeFolder marks a link-folder entry, linked as a single
	// directory symlink. The distinction also matters on platforms where
	// directory symlinks are created differently.
	wholeFolder bool
}

// linkBox places one box into one instance, resolving conflicts as they
// come up. The returned outcome is at most outcomeSkipBox; an abort is
// reported through the error instead.
func linkBox(box shulker.Box, inst instance.Spec, policy Policy, opts Options, logger zerolog.Logger) (outcome, error) {
	logger.Info().Str("box", box.Name).Str("instance", inst.Name).Msg("linking shulker box")

	resources, err := collectResources(box)
	if err != nil {
		conflict := Conflict{
			Box:         box.Name,
			Instance:    inst.Name,
			Resource:    ".",
			Destination: inst.Root,
			Reason:      err.Error(),
		}
		result, cerr := resolveConflict(policy, opts.Prompter, conflict, logger)
		if cerr != nil {
			return outcomeAbort, cerr
		}
		if result == outcomeContinue {
			result = outcomeSkipInstance
		}
		return result, nil
	}

	for _, res := range resources {
		linkErr := linkResource(box, inst, res, opts.AbsoluteLinks)
		if linkErr == nil {
			continue
		}

		// A destination evicted for a link that then failed to appear is
		// damaged state, not a plain conflict; no policy gets to absorb it.
		if errors.IsErrorCode(linkErr, errors.ErrLinkEvicted) {
			return outcomeAbort, linkErr
		}

		conflict := Conflict{
			Box:         box.Name,
			Instance:    inst.Name,
			Resource:    res.rel,
			Destination: filepath.Join(inst.Root, res.rel),
			Reason:      conflictReason(linkErr),
		}
		result, cerr := resolveConflict(policy, opts.Prompter, conflict, logger)
		if cerr != nil {
			return outcomeAbort, cerr
		}
		if result != outcomeContinue {
			return result, nil
		}
	}

	return outcomeContinue, nil
}

// collectResources resolves the set of paths inside the box that get
// linked: declared link folders first (each as a single whole-directory
// symlink), then every remaining file within the link-depth bound that
// isn't excluded by the do-not-link patterns.
func collectResources(box shulker.Box) ([]resource, error) {
	resources := make([]resource, 0, 8)
	for _, folder := range box.LinkFolders {
		resources = append(resources, resource{
			rel:         filepath.FromSlash(folder),
			wholeFolder: true,
		})
	}

	walkErr := filepath.WalkDir(box.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == box.Root {
			return nil
		}

		rel, err := filepath.Rel(box.Root, path)
		if err != nil {
			return err
		}

		if excluded(box.DoNotLink, rel, entry.Name()) {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if underLinkFolder(box.LinkFolders, rel) {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		depth := len(strings.Split(filepath.ToSlash(rel), "/"))
		if entry.IsDir() {
			if depth >= box.MaxLinkDepth {
				return fs.SkipDir
			}
			return nil
		}
		if depth > box.MaxLinkDepth {
			return nil
		}

		// broken symlinks inside the box aren't linkable
		if entry.Type()&fs.ModeSymlink != 0 {
			if _, err := os.Stat(path); err != nil {
				return nil
			}
		}

		resources = append(resources, resource{rel: rel})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, errors.ErrNotFound,
			"cannot read shulker box %s", box.Name)
	}

	return resources, nil
}

// linkResource places a single symlink: evict whatever stale object is
// allowed to go (an old symlink, an empty directory), then create the
// new link. A real file or non-empty directory is a conflict and is left
// untouched.
func linkResource(box shulker.Box, inst instance.Spec, res resource, absolute bool) error {
	source := filepath.Join(box.Root, res.rel)
	dest := filepath.Join(inst.Root, res.rel)
	destParent := filepath.Dir(dest)

	if res.wholeFolder {
		if _, err := os.Stat(source); err != nil {
			return errors.Wrapf(err, errors.ErrNotFound,
				"link folder %s does not exist in shulker box %s", res.rel, box.Name)
		}
	}

	if err := os.MkdirAll(destParent, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create parent directory")
	}

	target := source
	if !absolute {
		rel, err := filepath.Rel(destParent, source)
		if err != nil {
			return errors.Wrap(err, errors.ErrLinkCreate, "cannot compute relative link target")
		}
		target = rel
	}

	return evictThenCreate(dest, target)
}

// evictThenCreate is the two-phase link swap: clear out whatever may be
// cleared (an old symlink, an empty directory), then create the new
// link. When eviction succeeded but creation then fails, the destination
// has been damaged — that state is reported as ErrLinkEvicted and is
// never absorbed by a conflict policy.
func evictThenCreate(dest, target string) error {
	evicted := false
	if info, err := os.Lstat(dest); err == nil {
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			// idempotent re-link: old links are always fair game
			if err := os.Remove(dest); err != nil {
				return errors.Wrap(err, errors.ErrLinkCreate, "cannot remove stale symlink")
			}
			evicted = true
		case info.IsDir():
			// promoting a directory to a link only works when it's empty
			if err := os.Remove(dest); err != nil {
				return errors.New(errors.ErrLinkConflict, "existing non-empty directory")
			}
			evicted = true
		default:
			return errors.New(errors.ErrLinkConflict, "existing file")
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrLinkCreate, "cannot inspect destination")
	}

	if err := os.Symlink(target, dest); err != nil {
		if evicted {
			return errors.Wrapf(err, errors.ErrLinkEvicted,
				"evicted %s but could not create its replacement link", dest)
		}
		return errors.Wrap(err, errors.ErrLinkCreate, "cannot create symlink")
	}

	return nil
}

// cleanBrokenLinks removes every symlink under root whose target no
// longer resolves, so stale links from earlier runs never masquerade as
// conflicts. Failures here are logged and swallowed: cleanup is a
// convenience, not a correctness requirement.
func cleanBrokenLinks(root string, logger zerolog.Logger) {
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup cannot read path")
			return nil
		}
		if entry.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		if err := os.Remove(path); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cannot remove dangling symlink")
			return nil
		}
		logger.Debug().Str("path", path).Msg("removed dangling symlink")
		return nil
	})
}

// excluded checks the do-not-link patterns against both the relative
// path and the bare file name, so "*.bak" and ".DS_Store" work the way
// people expect
func excluded(patterns []string, rel, name string) bool {
	for _, pattern := range patterns {
		if wildcard.Match(pattern, filepath.ToSlash(rel)) || wildcard.Match(pattern, name) {
			return true
		}
	}
	return false
}

// underLinkFolder reports whether rel is one of the declared link
// folders or nested inside one
func underLinkFolder(linkFolders []string, rel string) bool {
	relSlash := filepath.ToSlash(rel)
	for _, folder := range linkFolders {
		folderSlash := filepath.ToSlash(folder)
		if relSlash == folderSlash || strings.HasPrefix(relSlash, folderSlash+"/") {
			return true
		}
	}
	return false
}

// conflictReason renders the reason field of a Conflict from a link
// error, without leaking the error-code prefix into the prompt text
func conflictReason(err error) string {
	var elErr *errors.EnderlinkError
	if stderrors.As(err, &elErr) {
		if elErr.Wrapped != nil {
			return elErr.Message + ": " + elErr.Wrapped.Error()
		}
		return elErr.Message
	}
	return err.Error()
}
