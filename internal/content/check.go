package content

import (
	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/util/sets"
)

// Check reports data problems in the snapshot. None of them abort a build: a post
// with a malformed timestamp is left out of the archive, and a reference to an
// unknown category or tag simply matches no listing.
func Check(s *Snapshot) []*errors.ClassifiedError {
	if s == nil {
		return nil
	}
	cats := sets.New[ID]()
	for _, c := range s.Categories {
		cats.Add(c.ID)
	}
	tags := sets.New[ID]()
	for _, t := range s.Tags {
		tags.Add(t.ID)
	}

	var out []*errors.ClassifiedError
	for _, p := range s.Posts {
		if !p.HasTimestamp() {
			out = append(out, errors.DataError("malformed post timestamp").
				WithContext("post", string(p.ID)).WithContext("created_at", p.CreatedRaw).Build())
		}
		if p.Category != nil && !cats.Has(p.Category.ID) {
			out = append(out, errors.DataError("post references unknown category").
				WithContext("post", string(p.ID)).WithContext("category", string(p.Category.ID)).Build())
		}
		for _, t := range p.Tags {
			if !tags.Has(t.ID) {
				out = append(out, errors.DataError("post references unknown tag").
					WithContext("post", string(p.ID)).WithContext("tag", string(t.ID)).Build())
			}
		}
	}
	return out
}
