// Package resolve maps the names players type to catalog actions.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/roguecore/types"
)

// AmbiguityError indicates multiple actions matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("which %s? (%s)", e.Name, strings.Join(e.Candidates, ", "))
}

// NotFoundError indicates no action matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no action named %q", e.Name)
}

// Action finds the action called name among scopes, searched in order. The
// first scope with any match decides: a single match wins, several are
// ambiguous. An exact ID in any scope always wins.
//
// A name matches an action by ID (case-insensitive, spaces read as
// underscores), by its full display name, or by one word of the display name.
func Action(name string, scopes ...[]*types.ActionDef) (*types.ActionDef, error) {
	for _, scope := range scopes {
		for _, a := range scope {
			if a != nil && a.ID == name {
				return a, nil
			}
		}
	}

	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, &NotFoundError{Name: name}
	}

	for _, scope := range scopes {
		var matches []*types.ActionDef
		for _, a := range scope {
			if a == nil || contains(matches, a) {
				continue
			}
			if matchesName(a, query) {
				matches = append(matches, a)
			}
		}

		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}
			return nil, &AmbiguityError{Name: name, Candidates: ids}
		}
	}
	return nil, &NotFoundError{Name: name}
}

// matchesName reports whether the lowercased query names a.
func matchesName(a *types.ActionDef, query string) bool {
	id := strings.ToLower(a.ID)
	if id == query || strings.ReplaceAll(query, " ", "_") == id {
		return true
	}
	if a.Name == "" {
		return false
	}
	display := strings.ToLower(a.Name)
	if display == query {
		return true
	}
	// "nova" matches "Frost Nova".
	for _, word := range strings.Fields(display) {
		if word == query {
			return true
		}
	}
	return false
}

func contains(list []*types.ActionDef, a *types.ActionDef) bool {
	for _, v := range list {
		if v == a {
			return true
		}
	}
	return false
}
