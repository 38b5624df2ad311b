package classify

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpress/theme-classic/internal/content"
)

func ids(ps []content.Post) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p.ID)
	}
	return out
}

func TestCategoriesExample(t *testing.T) {
	posts := []content.Post{
		{ID: "1", Category: &content.Ref{ID: "A"}},
		{ID: "2", Category: &content.Ref{ID: "B"}},
		{ID: "3", Category: &content.Ref{ID: "A"}},
	}
	cats := []content.Category{{ID: "A", Title: "A"}, {ID: "B", Title: "B"}, {ID: "C", Title: "C"}}

	res := Categories(cats, posts)
	require.Len(t, res.Active, 2)
	assert.Equal(t, content.ID("A"), res.Active[0].ID)
	assert.Equal(t, content.ID("B"), res.Active[1].ID)
	assert.Equal(t, []string{"1", "3"}, ids(res.PostsOf("A")))
	assert.Equal(t, []string{"2"}, ids(res.PostsOf("B")))
	_, ok := res.Posts["C"]
	assert.False(t, ok)
}

func TestTagsMultiValued(t *testing.T) {
	posts := []content.Post{
		{ID: "1", Tags: []content.Ref{{ID: "go"}, {ID: "web"}}},
		{ID: "2", Tags: []content.Ref{{ID: "web"}}},
		{ID: "3"},
		{ID: "4", Tags: []content.Ref{{ID: "ghost"}}},
	}
	tags := []content.Tag{{ID: "web"}, {ID: "empty"}, {ID: "go"}}

	res := Tags(tags, posts)
	require.Len(t, res.Active, 2)
	assert.Equal(t, content.ID("web"), res.Active[0].ID)
	assert.Equal(t, content.ID("go"), res.Active[1].ID)
	assert.Equal(t, []string{"1", "2"}, ids(res.PostsOf("web")))
	assert.Equal(t, []string{"1"}, ids(res.PostsOf("go")))
}

func TestResolveSoundness(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	var tags []content.Tag
	for i := range 8 {
		tags = append(tags, content.Tag{ID: content.ID(fmt.Sprintf("t%d", i))})
	}
	var posts []content.Post
	for i := range 60 {
		p := content.Post{ID: content.ID(fmt.Sprint(i))}
		for _, tg := range tags[:6] {
			if r.IntN(4) == 0 {
				p.Tags = append(p.Tags, content.Ref{ID: tg.ID})
			}
		}
		posts = append(posts, p)
	}

	res := Tags(tags, posts)
	for _, tg := range res.Active {
		list := res.PostsOf(string(tg.ID))
		require.NotEmpty(t, list)
		for _, p := range list {
			assert.True(t, HasTag(p, tg))
		}
	}
	for _, tg := range tags[6:] {
		assert.NotContains(t, res.Active, tg)
	}
}

func TestResolveIndexedParity(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 9))
	cats := []content.Category{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	tags := []content.Tag{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	for round := range 20 {
		var posts []content.Post
		for i := range r.IntN(30) {
			p := content.Post{ID: content.ID(fmt.Sprintf("%d-%d", round, i))}
			if n := r.IntN(6); n < len(cats) {
				p.Category = &content.Ref{ID: cats[n].ID}
			}
			for _, tg := range tags {
				if r.IntN(3) == 0 {
					p.Tags = append(p.Tags, content.Ref{ID: tg.ID})
				}
			}
			if len(p.Tags) > 0 && r.IntN(5) == 0 {
				p.Tags = append(p.Tags, p.Tags[0])
			}
			posts = append(posts, p)
		}

		assert.Equal(t, Resolve(cats, posts, CategoryID, InCategory), ResolveIndexed(cats, posts, CategoryID, CategoryKeys))
		assert.Equal(t, Resolve(tags, posts, TagID, HasTag), ResolveIndexed(tags, posts, TagID, TagKeys))
	}
}

func TestResolveEmpty(t *testing.T) {
	res := Categories(nil, nil)
	assert.Empty(t, res.Active)
	assert.Empty(t, res.Posts)
}
