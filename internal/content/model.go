// Package content holds the typed content snapshot (posts, comments, categories,
// tags and the site owner) and loads it from the JSON data files produced by the
// host build tool.
package content

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// ID is a stable identifier. Source data uses JSON numbers; strings are accepted too.
type ID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Post is one issue rendered as a blog entry.
type Post struct {
	ID         ID
	Number     int
	Title      string
	Body       string
	CreatedAt  time.Time // zero when CreatedRaw could not be parsed
	CreatedRaw string
	Category   *Ref
	Tags       []Ref
	Comments   []Comment
}

// HasTimestamp reports whether the creation time was parsed.
func (p Post) HasTimestamp() bool { return !p.CreatedAt.IsZero() }

// TagIDs returns the referenced tag ids in source order.
func (p Post) TagIDs() []ID {
	out := make([]ID, len(p.Tags))
	for i, t := range p.Tags {
		out[i] = t.ID
	}
	return out
}

// Ref is a reference from a post to a category or tag.
type Ref struct {
	ID    ID
	Title string
}

// Comment is owned by exactly one post and rendered inline with it.
type Comment struct {
	Author    string
	AvatarURL string
	Body      string
}

// Category is a milestone-like single-valued grouping.
type Category struct {
	ID          ID
	Title       string
	Description string
}

// Tag is a label-like multi-valued grouping.
type Tag struct {
	ID          ID
	Title       string
	Color       string
	Description string
}

// Owner is the site owner profile from the users topic.
type Owner struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	HTMLURL   string `json:"html_url"`
	Blog      string `json:"blog"`
	Location  string `json:"location"`
}

// Snapshot is the immutable input of one build.
type Snapshot struct {
	Posts      []Post
	Categories []Category
	Tags       []Tag
}

// ParseTimestamp parses a source timestamp. GitHub emits RFC 3339; a few
// date-only and space separated forms are accepted for hand written data.
// Date-time forms without an offset are wall-clock time in loc (nil means
// UTC); a bare date is midnight UTC.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(l, raw); err == nil {
			return t, true
		}
	}
	for _, l := range []string{"2006-01-02T15:04:05", time.DateTime} {
		if t, err := time.ParseInLocation(l, raw, loc); err == nil {
			return t, true
		}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}
