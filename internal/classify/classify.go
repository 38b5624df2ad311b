// Package classify resolves categories and tags against posts, dropping
// entities that no post references.
package classify

import (
	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/util/sets"
)

// Result holds the entities with at least one post, in input order, and the
// posts of each, keyed by entity id.
type Result[E any] struct {
	Active []E
	Posts  map[string][]content.Post
}

// PostsOf returns the posts of an active entity.
func (r Result[E]) PostsOf(id string) []content.Post { return r.Posts[id] }

// Resolve scans posts once per entity. Post order inside each list follows the
// input order.
func Resolve[E any](entities []E, posts []content.Post, id func(E) string, member func(content.Post, E) bool) Result[E] {
	res := Result[E]{Posts: make(map[string][]content.Post)}
	for _, e := range entities {
		var matched []content.Post
		for _, p := range posts {
			if member(p, e) {
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			continue
		}
		res.Active = append(res.Active, e)
		res.Posts[id(e)] = matched
	}
	return res
}

// ResolveIndexed produces the same result as Resolve from a single pass that
// groups posts by the ids returned from keys. Duplicate ids on one post are
// counted once.
func ResolveIndexed[E any](entities []E, posts []content.Post, id func(E) string, keys func(content.Post) []string) Result[E] {
	grouped := make(map[string][]content.Post)
	for _, p := range posts {
		seen := sets.New[string]()
		for _, k := range keys(p) {
			if seen.AddNew(k) {
				grouped[k] = append(grouped[k], p)
			}
		}
	}
	res := Result[E]{Posts: make(map[string][]content.Post)}
	emitted := sets.New[string]()
	for _, e := range entities {
		k := id(e)
		ps := grouped[k]
		if len(ps) == 0 {
			continue
		}
		res.Active = append(res.Active, e)
		if emitted.AddNew(k) {
			res.Posts[k] = ps
		}
	}
	return res
}

// CategoryID and TagID adapt the content types for Resolve.
func CategoryID(c content.Category) string { return string(c.ID) }
func TagID(t content.Tag) string           { return string(t.ID) }

// InCategory is the single-valued category membership test.
func InCategory(p content.Post, c content.Category) bool {
	return p.Category != nil && p.Category.ID == c.ID
}

// HasTag is the multi-valued tag membership test.
func HasTag(p content.Post, t content.Tag) bool {
	for _, r := range p.Tags {
		if r.ID == t.ID {
			return true
		}
	}
	return false
}

// CategoryKeys and TagKeys are the grouping keys used by ResolveIndexed.
func CategoryKeys(p content.Post) []string {
	if p.Category == nil {
		return nil
	}
	return []string{string(p.Category.ID)}
}

func TagKeys(p content.Post) []string {
	out := make([]string, len(p.Tags))
	for i, r := range p.Tags {
		out[i] = string(r.ID)
	}
	return out
}

// Categories resolves categories with InCategory.
func Categories(cats []content.Category, posts []content.Post) Result[content.Category] {
	return Resolve(cats, posts, CategoryID, InCategory)
}

// Tags resolves tags with HasTag.
func Tags(tags []content.Tag, posts []content.Post) Result[content.Tag] {
	return Resolve(tags, posts, TagID, HasTag)
}
