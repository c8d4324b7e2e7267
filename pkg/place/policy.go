package place

import (
	"github.com/rs/zerolog"

	"github.com/enderlink/enderlink/pkg/errors"
)

// Policy decides the blast radius of a single link conflict
type Policy string

const (
	// PolicyPrompt defers each conflict to the prompt collaborator
	PolicyPrompt Policy = "prompt"

	// PolicyIgnore leaves the destination alone and moves on quietly
	PolicyIgnore Policy = "ignore"

	// PolicySkip leaves the destination alone and logs the conflict as
	// an error
	PolicySkip Policy = "skip"

	// PolicySkipInstance abandons the rest of the current (box, instance)
	// pair and proceeds to the next instance
	PolicySkipInstance Policy = "skip-instance"

	// PolicySkipBox abandons the current box entirely and proceeds to
	// the next box
	PolicySkipBox Policy = "skip-shulker-box"

	// PolicyAbort stops placement on the spot
	PolicyAbort Policy = "abort"
)

// ParsePolicy maps user-facing spellings onto a Policy. An empty string
// selects the default (prompt).
func ParsePolicy(raw string) (Policy, error) {
	switch raw {
	case "":
		return PolicyPrompt, nil
	case "prompt", "ignore", "skip", "skip-instance", "abort":
		return Policy(raw), nil
	case "skip-shulker-box", "skip-box":
		return PolicySkipBox, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput,
			"unrecognized conflict policy %q", raw)
	}
}

// Conflict describes one destination the engine refused to overwrite
type Conflict struct {
	// Box and Instance name the (box, instance) pair being linked
	Box      string
	Instance string

	// Resource is the path relative to the box root
	Resource string

	// Destination is the occupied path in the instance tree
	Destination string

	// Reason says what is sitting at the destination (or what I/O error
	// stood in for a conflict)
	Reason string
}

// Prompter is the external collaborator consulted under PolicyPrompt.
// The returned policy applies to just the presented conflict, not as a
// standing mode change.
type Prompter interface {
	Ask(conflict Conflict) (Policy, error)
}

// outcome is what the driving loop does after a conflict is resolved
type outcome int

const (
	outcomeContinue outcome = iota
	outcomeSkipInstance
	outcomeSkipBox
	outcomeAbort
)

// resolveConflict runs the conflict-policy state machine for a single
// conflict and reports how far the skip should reach. Only outcomeAbort
// carries an error.
func resolveConflict(policy Policy, prompter Prompter, conflict Conflict, logger zerolog.Logger) (outcome, error) {
	event := logger.With().
		Str("box", conflict.Box).
		Str("instance", conflict.Instance).
		Str("resource", conflict.Resource).
		Str("destination", conflict.Destination).
		Str("reason", conflict.Reason).
		Logger()

	switch policy {
	case PolicyIgnore:
		event.Debug().Msg("ignoring conflict, destination left untouched")
		return outcomeContinue, nil

	case PolicySkip:
		event.Error().Msg("skipping conflicting resource")
		return outcomeContinue, nil

	case PolicySkipInstance:
		event.Error().Msg("abandoning remaining resources for this instance")
		return outcomeSkipInstance, nil

	case PolicySkipBox:
		event.Error().Msg("abandoning this shulker box entirely")
		return outcomeSkipBox, nil

	case PolicyAbort:
		event.Error().Msg("aborting placement")
		return outcomeAbort, errors.Newf(errors.ErrLinkConflict,
			"%s: %s", conflict.Destination, conflict.Reason).
			WithDetail("box", conflict.Box).
			WithDetail("instance", conflict.Instance)

	case PolicyPrompt:
		if prompter == nil {
			return outcomeAbort, errors.New(errors.ErrInvalidInput,
				"conflict policy is prompt but no prompter was provided")
		}
		answer, err := prompter.Ask(conflict)
		if err != nil {
			return outcomeAbort, errors.Wrap(err, errors.ErrLinkConflict,
				"conflict prompt failed")
		}
		if answer == PolicyPrompt {
			return outcomeAbort, errors.New(errors.ErrInternal,
				"prompter answered with another prompt")
		}
		return resolveConflict(answer, prompter, conflict, logger)
	}

	return outcomeAbort, errors.Newf(errors.ErrInvalidInput,
		"unrecognized conflict policy %q", policy)
}
