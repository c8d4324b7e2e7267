// Package shulker defines shulker boxes: named, priority-ordered bundles
// of linkable resources with the match criteria that decide which
// instances and hosts they apply to.
package shulker

import (
	"fmt"
	"sort"

	"github.com/enderlink/enderlink/pkg/chest"
	"github.com/enderlink/enderlink/pkg/errors"
)

// DefaultLinkDepth is how many path components below the box root are
// linked file-by-file when no explicit max-link-depth is configured
const DefaultLinkDepth = 2

// DefaultDoNotLink is the baseline exclusion list applied to every box:
// its own config file and OS metadata droppings
var DefaultDoNotLink = []string{chest.BoxConfigName, ".DS_Store"}

// Condition names understood by the match engine
const (
	ConditionInstances = "instances"
	ConditionTags      = "tags"
	ConditionModloader = "modloader"
	ConditionMinecraft = "minecraft"
	ConditionHosts     = "hosts"
)

// Criterion is one match condition together with its patterns. An
// instance must satisfy at least one pattern of every criterion.
type Criterion struct {
	Condition string
	Patterns  []string
}

// Box is the specification of a shulker box. Like instance.Spec it is
// produced once by the configuration layer and read-only afterwards.
type Box struct {
	// Priority controls application order; higher-priority boxes are
	// linked last and therefore win conflicts
	Priority int

	// Name of the box (also the tie-breaker for equal priorities)
	Name string

	// Root is the path to the box folder inside the EnderChest
	Root string

	// MatchCriteria are ANDed; the patterns within each are ORed
	MatchCriteria []Criterion

	// LinkFolders are folders linked whole, as a single symlink
	LinkFolders []string

	// MaxLinkDepth bounds how deep below Root individual files are linked
	MaxLinkDepth int

	// DoNotLink holds wildcard patterns of paths that are never linked
	DoNotLink []string
}

// Validate checks that every criterion names a condition the match
// engine knows how to apply
func (b Box) Validate() error {
	for _, criterion := range b.MatchCriteria {
		switch criterion.Condition {
		case ConditionInstances, ConditionTags, ConditionModloader,
			ConditionMinecraft, ConditionHosts:
		default:
			return errors.Newf(errors.ErrMatchCondition,
				"don't know how to apply match condition %q", criterion.Condition)
		}
	}
	return nil
}

// Key is the sort key that determines application order. It is an
// explicit type so that boxes are never ordered by structural comparison
// of the whole record.
type Key struct {
	Priority int
	Name     string
}

// Less reports whether k orders strictly before other
func (k Key) Less(other Key) bool {
	if k.Priority != other.Priority {
		return k.Priority < other.Priority
	}
	return k.Name < other.Name
}

// String renders the key for error reports
func (k Key) String() string {
	return fmt.Sprintf("(%d, %s)", k.Priority, k.Name)
}

// SortKey returns the box's application-order key
func (b Box) SortKey() Key {
	return Key{Priority: b.Priority, Name: b.Name}
}

// SortByPriority orders boxes in place, ascending by (priority, name).
// This is the application order: boxes later in the sequence overwrite
// links created by earlier ones. The (priority, name) key must be unique
// across the set; a duplicate is reported as an ErrBoxOrdering.
func SortByPriority(boxes []Box) error {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].SortKey().Less(boxes[j].SortKey())
	})
	for i := 1; i < len(boxes); i++ {
		if boxes[i].SortKey() == boxes[i-1].SortKey() {
			return errors.Newf(errors.ErrBoxOrdering,
				"two shulker boxes share the sort key %s", boxes[i].SortKey())
		}
	}
	return nil
}
