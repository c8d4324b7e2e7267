// Package prompt implements the interactive conflict prompter consumed
// by the placement engine under the prompt policy.
package prompt

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/enderlink/enderlink/pkg/errors"
	"github.com/enderlink/enderlink/pkg/place"
)

// choice labels shown to the user, in the order presented
var choices = []struct {
	label  string
	policy place.Policy
}{
	{"skip this file", place.PolicySkip},
	{"skip this file quietly", place.PolicyIgnore},
	{"skip the rest of this instance", place.PolicySkipInstance},
	{"skip the rest of this shulker box", place.PolicySkipBox},
	{"abort placement", place.PolicyAbort},
}

// ConsolePrompter asks about each conflict on the terminal
type ConsolePrompter struct{}

// NewConsolePrompter creates a terminal-backed conflict prompter
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{}
}

// Ask presents one conflict and maps the answer onto a policy for just
// that conflict
func (p *ConsolePrompter) Ask(conflict place.Conflict) (place.Policy, error) {
	pterm.Warning.Printfln("%s already exists (%s)", conflict.Destination, conflict.Reason)
	pterm.Info.Printfln("while linking %s from shulker box %s into instance %s",
		conflict.Resource, conflict.Box, conflict.Instance)

	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.label
	}

	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(labels).
		WithDefaultOption(labels[0]).
		Show("What would you like to do?")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "conflict prompt failed")
	}

	for _, c := range choices {
		if c.label == selected {
			return c.policy, nil
		}
	}
	return "", errors.New(errors.ErrInternal,
		fmt.Sprintf("prompt returned unknown choice %q", selected))
}

// Confirm asks a yes/no question, returning the default when the user
// just hits enter
func Confirm(question string, defaultYes bool) (bool, error) {
	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(defaultYes).
		Show(question)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "confirmation prompt failed")
	}
	return result, nil
}

// interface compliance
var _ place.Prompter = (*ConsolePrompter)(nil)
