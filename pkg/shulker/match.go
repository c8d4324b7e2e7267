package shulker

import (
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/instance"
	"github.com/enderlink/enderlink/pkg/wildcard"
)

// Matches determines whether the box applies to the given instance. Every
// criterion must be satisfied by at least one of its patterns; the hosts
// criterion is handled separately by MatchesHost. An unrecognized
// condition name is reported as an ErrMatchCondition so the caller can
// skip just this box.
//
// Matches never touches the filesystem and has no hidden state: the same
// box and instance always produce the same answer.
func (b Box) Matches(inst instance.Spec) (bool, error) {
	for _, criterion := range b.MatchCriteria {
		switch criterion.Condition {
		case ConditionInstances:
			if !matchesName(criterion.Patterns, inst.Name) {
				return false, nil
			}
		case ConditionTags:
			if !matchesTags(criterion.Patterns, inst.EffectiveTags()) {
				return false, nil
			}
		case ConditionModloader:
			if !matchesModloader(criterion.Patterns, inst.Modloader) {
				return false, nil
			}
		case ConditionMinecraft:
			if !matchesMinecraft(criterion.Patterns, inst.MinecraftVersions) {
				return false, nil
			}
		case ConditionHosts:
			// whole-box visibility, handled by MatchesHost
		default:
			return false, errors.Newf(errors.ErrMatchCondition,
				"don't know how to apply match condition %q", criterion.Condition)
		}
	}
	return true, nil
}

// MatchesHost determines whether the box should be linked at all from the
// given host. Without a hosts criterion every host matches.
func (b Box) MatchesHost(hostname string) bool {
	for _, criterion := range b.MatchCriteria {
		if criterion.Condition != ConditionHosts {
			continue
		}
		matched := false
		for _, pattern := range criterion.Patterns {
			if wildcard.MatchFold(strings.TrimSpace(pattern), hostname) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// matchesName applies the instances criterion: exact-case wildcard
// matching against the instance name, with "!" patterns acting as
// exclusions that are checked first. If only exclusions are given, the
// remaining matcher set is an implicit "*".
func matchesName(patterns []string, name string) bool {
	matchers, exclusions := splitExclusions(patterns)
	for _, pattern := range exclusions {
		if matchesString(pattern, name, true) {
			return false
		}
	}
	for _, pattern := range matchers {
		if matchesString(pattern, name, true) {
			return true
		}
	}
	return false
}

// matchesTags applies the tags criterion case-insensitively against the
// instance's effective tags. A literal "*" matches even an empty tag set.
func matchesTags(patterns []string, tags []string) bool {
	matchers, exclusions := splitExclusions(patterns)
	for _, pattern := range exclusions {
		for _, tag := range tags {
			if matchesString(pattern, tag, false) {
				return false
			}
		}
	}
	for _, pattern := range matchers {
		if strings.TrimSpace(pattern) == "*" {
			return true
		}
		for _, tag := range tags {
			if matchesString(pattern, tag, false) {
				return true
			}
		}
	}
	return false
}

// matchesModloader compares loaders case-insensitively after pushing both
// sides through the alias table, so "fabric" matches "Fabric Loader".
func matchesModloader(patterns []string, modloader string) bool {
	canonical := instance.NormalizeModloader(modloader)
	for _, pattern := range patterns {
		normalized := instance.NormalizeModloader(strings.TrimSpace(pattern))
		if matchesString(normalized, canonical, false) {
			return true
		}
	}
	return false
}

// matchesMinecraft is satisfied when any one instance version satisfies
// any one pattern
func matchesMinecraft(patterns []string, versions []string) bool {
	for _, pattern := range patterns {
		for _, versionString := range versions {
			if matchesVersion(pattern, versionString) {
				return true
			}
		}
	}
	return false
}

// matchesVersion tries a semantic version-range match first (">=", "<",
// "=", comma-separated ANDs). Neither users nor Mojang rigidly follow
// semver, so when either side refuses to parse, fall back to
// case-insensitive wildcard matching on the raw strings. That is what
// keeps snapshot identifiers like "23w13a_or_b" matchable.
func matchesVersion(versionSpec, versionString string) bool {
	spec := strings.TrimSpace(versionSpec)
	if constraints, err := goversion.NewConstraint(spec); err == nil {
		if parsed, err := goversion.NewVersion(strings.TrimSpace(versionString)); err == nil {
			return constraints.Check(parsed)
		}
	}
	return wildcard.MatchFold(spec, strings.TrimSpace(versionString))
}

// quotedLiteral matches a pattern wrapped in a single pair of quotes;
// regexPattern matches one additionally prefixed with an "r"
var (
	quotedLiteral = regexp.MustCompile(`^('|").*('|")$`)
	regexPattern  = regexp.MustCompile(`^r('|").*('|")$`)
)

// matchesString checks a single pattern against a single value. A quoted
// pattern is unwrapped first; an r-quoted pattern is applied as a raw
// regular expression (ignoring the case flag, like the quotes imply).
func matchesString(pattern, value string, caseSensitive bool) bool {
	pattern = strings.TrimSpace(pattern)
	value = strings.TrimSpace(value)
	if regexPattern.MatchString(pattern) {
		matched, err := regexp.MatchString(pattern[2:len(pattern)-1], value)
		return err == nil && matched
	}
	if quotedLiteral.MatchString(pattern) {
		pattern = pattern[1 : len(pattern)-1]
	}
	if caseSensitive {
		return wildcard.Match(pattern, value)
	}
	return wildcard.MatchFold(pattern, value)
}

// splitExclusions separates "!" prefixed patterns from plain matchers.
// An empty matcher list (everything was an exclusion) degrades to a
// single implicit "*".
func splitExclusions(patterns []string) (matchers, exclusions []string) {
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if strings.HasPrefix(trimmed, "!") {
			exclusions = append(exclusions, trimmed[1:])
		} else {
			matchers = append(matchers, trimmed)
		}
	}
	if len(matchers) == 0 {
		matchers = []string{"*"}
	}
	return matchers, exclusions
}
