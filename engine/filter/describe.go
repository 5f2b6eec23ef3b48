package filter

import (
	"fmt"
	"strings"

	"github.com/nathoo/roguecore/types"
)

// Describe renders a filter tree as a compact one-line expression for trace
// output, e.g. and(not_acquired, has_any(Element.Fire)).
func Describe(f types.Filter) string {
	switch v := f.(type) {
	case nil:
		return "none"
	case Base:
		return "any"
	case IsAcquired:
		return "acquired"
	case NotAcquired:
		return "not_acquired"
	case NotMaxStacked:
		return "not_max_stacked"
	case HasTags:
		name := "has_any"
		if v.RequireAll {
			name = "has_all"
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(v.Tags, ", "))
	case ValueCompare:
		src := "action"
		if v.UseRunState {
			src = "run"
		}
		return fmt.Sprintf("%s.%s %s %g", src, v.Key, v.Op, v.Value)
	case And:
		return "and(" + describeAll(v.Filters) + ")"
	case Or:
		return "or(" + describeAll(v.Filters) + ")"
	case Not:
		return "not(" + Describe(v.Filter) + ")"
	case ExcludeNewWithTag:
		return fmt.Sprintf("exclude_new(%s)", strings.Join(v.Tags, ", "))
	case Func:
		return "func"
	}
	return fmt.Sprintf("%T", f)
}

func describeAll(filters []types.Filter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = Describe(f)
	}
	return strings.Join(parts, ", ")
}
