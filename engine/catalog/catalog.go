// Package catalog holds the registered action definitions and a tag index
// over them. Every lookup returns actions in registration order, which keeps
// weighted selection reproducible for a given seed.
package catalog

import "github.com/nathoo/roguecore/types"

// Catalog is the set of registered actions plus a tag → actions index.
// The catalog does not own the definitions; it only references them.
type Catalog struct {
	actions []*types.ActionDef
	byID    map[string]*types.ActionDef
	index   map[string][]*types.ActionDef
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID:  map[string]*types.ActionDef{},
		index: map[string][]*types.ActionDef{},
	}
}

// Register adds an action and indexes each of its tags. Nil actions, actions
// without an ID and already-registered IDs are ignored.
func (c *Catalog) Register(a *types.ActionDef) {
	if a == nil || a.ID == "" {
		return
	}
	if _, ok := c.byID[a.ID]; ok {
		return
	}

	c.actions = append(c.actions, a)
	c.byID[a.ID] = a

	seen := map[string]bool{}
	for _, tag := range a.Tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		c.index[tag] = append(c.index[tag], a)
	}
}

// RegisterAll registers every action in order.
func (c *Catalog) RegisterAll(actions []*types.ActionDef) {
	for _, a := range actions {
		c.Register(a)
	}
}

// Unregister removes an action and its index entries. No-op if absent.
func (c *Catalog) Unregister(a *types.ActionDef) {
	if a == nil {
		return
	}
	c.UnregisterID(a.ID)
}

// UnregisterID removes the action registered under id. No-op if absent.
func (c *Catalog) UnregisterID(id string) {
	a, ok := c.byID[id]
	if !ok {
		return
	}
	delete(c.byID, id)
	c.actions = removeAction(c.actions, a)

	for _, tag := range a.Tags {
		entries, ok := c.index[tag]
		if !ok {
			continue
		}
		entries = removeAction(entries, a)
		if len(entries) == 0 {
			delete(c.index, tag)
		} else {
			c.index[tag] = entries
		}
	}
}

// Len returns the number of registered actions.
func (c *Catalog) Len() int {
	return len(c.actions)
}

// All returns every registered action in registration order.
func (c *Catalog) All() []*types.ActionDef {
	out := make([]*types.ActionDef, len(c.actions))
	copy(out, c.actions)
	return out
}

// Get returns the action registered under id, or nil.
func (c *Catalog) Get(id string) *types.ActionDef {
	return c.byID[id]
}

// Resolve looks up a stored action reference. It lets the catalog act as the
// resolver when a run is restored from save data.
func (c *Catalog) Resolve(id string) (*types.ActionDef, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Contains reports whether an action with the same ID is registered.
func (c *Catalog) Contains(a *types.ActionDef) bool {
	if a == nil {
		return false
	}
	_, ok := c.byID[a.ID]
	return ok
}

// ByTag returns the actions indexed under tag, or an empty slice.
func (c *Catalog) ByTag(tag string) []*types.ActionDef {
	entries := c.index[tag]
	out := make([]*types.ActionDef, len(entries))
	copy(out, entries)
	return out
}

// ByTags returns actions matching a tag set. With requireAll the whole
// catalog is scanned for actions carrying every tag. Otherwise the per-tag
// index sets are unioned (OR semantics), deduplicated in first-seen order.
func (c *Catalog) ByTags(tags []string, requireAll bool) []*types.ActionDef {
	var out []*types.ActionDef

	if requireAll {
		for _, a := range c.actions {
			if HasAllTags(a, tags) {
				out = append(out, a)
			}
		}
		return out
	}

	seen := map[string]bool{}
	for _, tag := range tags {
		for _, a := range c.index[tag] {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	return out
}

// Tags returns every indexed tag with the number of actions carrying it.
func (c *Catalog) Tags() map[string]int {
	out := make(map[string]int, len(c.index))
	for tag, entries := range c.index {
		out[tag] = len(entries)
	}
	return out
}

func removeAction(list []*types.ActionDef, a *types.ActionDef) []*types.ActionDef {
	for i, v := range list {
		if v == a {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
