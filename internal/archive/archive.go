// Package archive groups posts into year-month cohorts for the archive page.
package archive

import (
	"time"

	"github.com/fluxpress/theme-classic/internal/content"
	"github.com/fluxpress/theme-classic/internal/util/ordered"
)

// MonthLayout formats a month key such as "2024-01".
const MonthLayout = "2006-01"

// Bucket is one month of posts in listing order.
type Bucket struct {
	Month string
	Posts []content.Post
}

// MonthKey returns the bucket key of t in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(MonthLayout)
}

// GroupByMonth buckets posts by creation month. Buckets appear in the order their
// first post was encountered, so calendar order holds only when the input is
// already sorted. Posts without a parsed timestamp are skipped.
func GroupByMonth(posts []content.Post, loc *time.Location) *ordered.Map[string, []content.Post] {
	m := ordered.New[string, []content.Post]()
	for _, p := range posts {
		if !p.HasTimestamp() {
			continue
		}
		m.Update(MonthKey(p.CreatedAt, loc), func(cur []content.Post) []content.Post {
			return append(cur, p)
		})
	}
	return m
}

// Buckets flattens the grouping for templates.
func Buckets(m *ordered.Map[string, []content.Post]) []Bucket {
	out := make([]Bucket, 0, m.Len())
	for k, v := range m.All() {
		out = append(out, Bucket{Month: k, Posts: v})
	}
	return out
}
